package handlers

import (
	"encoding/xml"
	"io"
	"net/http"
)

// messagingResponse is the Twilio messaging reply document.
type messagingResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// respondTwiML writes a single-message TwiML reply. Encoding handles XML
// escaping of the message body.
func respondTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/xml")
	io.WriteString(w, xml.Header)
	xml.NewEncoder(w).Encode(messagingResponse{Message: message})
}
