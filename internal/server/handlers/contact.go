package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/climbe/ri-backend/internal/mail"
)

// Contact serves the contact-form and newsletter relay endpoints.
type Contact struct {
	sender mail.Sender
	log    *zap.Logger
}

// NewContact creates the relay handlers.
func NewContact(sender mail.Sender, log *zap.Logger) *Contact {
	return &Contact{sender: sender, log: log}
}

type successResponse struct {
	Success bool `json:"success"`
}

// Contato handles POST /api/contato. All four fields are required; nothing
// is relayed when any is missing.
func (c *Contact) Contato(w http.ResponseWriter, r *http.Request) {
	var sub mail.ContactSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "Dados obrigatorios ausentes")
		return
	}

	if sub.Nome == "" || sub.Email == "" || sub.Empresa == "" || sub.Mensagem == "" {
		writeError(w, http.StatusBadRequest, "Dados obrigatorios ausentes")
		return
	}

	// Correlates the two relayed messages with the log stream.
	submissionID := uuid.NewString()

	if err := c.sender.SendContact(r.Context(), sub); err != nil {
		c.log.Error("contact relay failed",
			zap.String("submission_id", submissionID),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Erro ao enviar mensagem")
		return
	}

	c.log.Info("contact relayed",
		zap.String("submission_id", submissionID))
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Newsletter handles POST /api/newsletter.
func (c *Contact) Newsletter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Email e obrigatorio")
		return
	}
	if body.Email == "" {
		writeError(w, http.StatusBadRequest, "Email e obrigatorio")
		return
	}

	submissionID := uuid.NewString()

	if err := c.sender.SendNewsletter(r.Context(), body.Email); err != nil {
		c.log.Error("newsletter relay failed",
			zap.String("submission_id", submissionID),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Erro ao enviar email")
		return
	}

	c.log.Info("newsletter relayed",
		zap.String("submission_id", submissionID))
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
