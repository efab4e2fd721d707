// Package handlers implements the HTTP handlers for the ODIA backend:
// messaging webhooks, the speech endpoint, billing, and operational routes.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/odiadev/odia-backend/internal/agent"
	"github.com/odiadev/odia-backend/internal/ai"
	"github.com/odiadev/odia-backend/internal/audit"
	"github.com/odiadev/odia-backend/internal/billing"
	"github.com/odiadev/odia-backend/internal/config"
	"github.com/odiadev/odia-backend/internal/store"
	"github.com/odiadev/odia-backend/internal/telegram"
	"github.com/odiadev/odia-backend/internal/voice"
	"github.com/odiadev/odia-backend/pkg/models"
)

// apologyReply is the degraded response when every completion provider is
// down. The channel must never be left silent.
const apologyReply = "Sorry, I can't reply right now. Please try again in a few minutes."

const unsupportedNumberReply = "Only Nigerian (+234) numbers are supported for now."

// Handlers holds all handler dependencies.
type Handlers struct {
	Cfg      *config.Config
	AI       *ai.Service
	Voice    *voice.Synthesizer
	Audit    *audit.Writer
	Billing  *billing.Client
	Telegram *telegram.Client
	Store    store.Store

	started time.Time
	lagos   *time.Location
}

// New creates a Handlers instance with all dependencies.
func New(cfg *config.Config, svc *ai.Service, synth *voice.Synthesizer, aud *audit.Writer, bill *billing.Client, tg *telegram.Client, st store.Store) *Handlers {
	lagos, err := time.LoadLocation("Africa/Lagos")
	if err != nil {
		lagos = time.UTC
	}
	return &Handlers{
		Cfg:      cfg,
		AI:       svc,
		Voice:    synth,
		Audit:    aud,
		Billing:  bill,
		Telegram: tg,
		Store:    st,
		started:  time.Now(),
		lagos:    lagos,
	}
}

// ── Operational routes ───────────────────────────────────────

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().In(h.lagos).Format(time.RFC3339),
		"store":  h.Store.Ping(ctx) == nil,
		"region": h.Cfg.Region,
	})
}

func (h *Handlers) Version(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"version": h.Cfg.Version,
		"service": "odia-backend",
	})
}

func (h *Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	respondJSON(w, http.StatusOK, map[string]any{
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
		"heap_bytes":     mem.HeapAlloc,
		"sys_bytes":      mem.Sys,
		"time":           time.Now().In(h.lagos).Format(time.RFC3339),
	})
}

// ── Messaging webhooks ───────────────────────────────────────

// TwilioWebhook handles inbound WhatsApp messages. Signature verification
// happens in middleware before this runs. The response is always a TwiML
// document; completion failure degrades to an apology, never a 500.
func (h *Handlers) TwilioWebhook(w http.ResponseWriter, r *http.Request) {
	body := r.PostFormValue("Body")
	from := r.PostFormValue("From")

	if !models.IsNigerianPhone(strings.TrimPrefix(from, "whatsapp:")) {
		respondTwiML(w, unsupportedNumberReply)
		return
	}

	agentID := agent.Select(body)
	reply := h.reply(r.Context(), agentID, body)

	h.Audit.Record(models.ConversationRecord{
		SessionID: from,
		Platform:  models.PlatformWhatsApp,
		Message:   body,
		Response:  reply,
		Agent:     string(agentID),
	})

	respondTwiML(w, reply)
}

// telegramUpdate is the subset of the Bot API update payload we act on.
type telegramUpdate struct {
	Message *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// TelegramWebhook handles inbound bot messages. The platform is always
// answered 200 so it does not re-deliver; the user-facing reply goes out
// through the Bot API.
func (h *Handlers) TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	var update telegramUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil || update.Message == nil || update.Message.Text == "" {
		respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	chatID := update.Message.Chat.ID
	text := update.Message.Text

	agentID := agent.Select(text)
	reply := h.reply(r.Context(), agentID, text)

	h.Audit.Record(models.ConversationRecord{
		SessionID: "tg_" + strconv.FormatInt(chatID, 10),
		Platform:  models.PlatformTelegram,
		Message:   text,
		Response:  reply,
		Agent:     string(agentID),
	})

	if err := h.Telegram.SendMessage(r.Context(), chatID, reply); err != nil {
		log.Error().Int64("chat_id", chatID).Err(err).Msg("Telegram send failed")
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// reply runs the completion flow for one inbound message, degrading to the
// apology text when every provider is down.
func (h *Handlers) reply(ctx context.Context, agentID agent.ID, message string) string {
	res, err := h.AI.Complete(ctx, agent.Prompt(agentID), message)
	if err != nil {
		log.Error().Str("agent", string(agentID)).Err(err).Msg("Completion unavailable, sending apology")
		return apologyReply
	}
	log.Debug().Str("agent", string(agentID)).Str("provider", res.Provider).Msg("Completion served")
	return res.Text
}

// ── Speech endpoint ──────────────────────────────────────────

type speakRequest struct {
	Text      string `json:"text"`
	AgentType string `json:"agent_type"`
}

type speakResult struct {
	audio []byte
	err   error
}

// Speak synthesizes text as audio/mpeg. The whole synthesis runs under a
// fixed deadline; on expiry or origin failure the caller gets a 200
// text-fallback payload instead of an error. Missing text is the only
// client error.
func (h *Handlers) Speak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		respondError(w, http.StatusBadRequest, "text required")
		return
	}

	agentID := agent.Default
	if req.AgentType != "" {
		if def, ok := agent.Get(agent.ID(req.AgentType)); ok {
			agentID = def.ID
		}
	}

	hintAndroid, hintSafari := networkHint(r)
	log.Debug().Bool("android", hintAndroid).Bool("safari", hintSafari).Msg("Speak network hint")

	// The synthesis goroutine gets a detached context: on deadline expiry
	// the result is discarded here, but an in-flight origin fetch may
	// finish and complete its cache write-back, which is harmless.
	resultCh := make(chan speakResult, 1)
	go func() {
		audio, err := h.Voice.Synthesize(context.WithoutCancel(r.Context()), req.Text, agentID)
		resultCh <- speakResult{audio: audio, err: err}
	}()

	timer := time.NewTimer(h.Cfg.Voice.Timeout)
	defer timer.Stop()

	select {
	case res := <-resultCh:
		if res.err != nil {
			log.Warn().Str("agent", string(agentID)).Err(res.err).Msg("Synthesis failed, falling back to text")
			respondJSON(w, http.StatusOK, map[string]string{"status": "text_fallback", "message": req.Text})
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.WriteHeader(http.StatusOK)
		w.Write(res.audio)

	case <-timer.C:
		log.Warn().Str("agent", string(agentID)).Dur("timeout", h.Cfg.Voice.Timeout).Msg("Synthesis deadline exceeded, falling back to text")
		respondJSON(w, http.StatusOK, map[string]string{"status": "text_fallback", "message": req.Text})
	}
}

// networkHint is a light user-agent heuristic used for log-level analytics
// of constrained clients.
func networkHint(r *http.Request) (android, safari bool) {
	ua := r.UserAgent()
	android = strings.Contains(ua, "Android")
	safari = strings.Contains(ua, "Safari") && !strings.Contains(ua, "Chrome")
	return android, safari
}

// ── Billing ──────────────────────────────────────────────────

type checkoutRequest struct {
	Phone string `json:"phone"`
	Plan  string `json:"plan"`
	Email string `json:"email"`
}

func (h *Handlers) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" || req.Plan == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "phone, plan, email required")
		return
	}
	if !models.IsNigerianPhone(req.Phone) {
		respondError(w, http.StatusBadRequest, "must be +234...")
		return
	}

	out, err := h.Billing.CreatePayment(r.Context(), billing.CheckoutRequest{
		Phone: req.Phone,
		Plan:  req.Plan,
		Email: req.Email,
	})
	if err != nil {
		log.Error().Str("plan", req.Plan).Err(err).Msg("Checkout creation failed")
		respondError(w, http.StatusInternalServerError, "billing failed")
		return
	}

	log.Info().
		Str("plan", req.Plan).
		Str("amount", models.FormatNaira(out.Amount)).
		Str("tx_ref", out.TxRef).
		Msg("Checkout created")
	respondJSON(w, http.StatusOK, out)
}

// ── Helpers ──────────────────────────────────────────────────

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

