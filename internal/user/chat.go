package user

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/Paburo99/fitmind-backend/internal/geminiservice"
	"github.com/Paburo99/fitmind-backend/internal/utility"
)

// maxChatMessageLen bounds the inbound message size.
const maxChatMessageLen = 1000

// ChatRequest is the context-aware chat payload. PageContext names the app
// page the user is on; unknown pages get dashboard treatment.
type ChatRequest struct {
	Message         string                   `json:"message"`
	PageContext     string                   `json:"page_context"`
	History         []geminiservice.ChatTurn `json:"conversation_history"`
	UserConstraints []string                 `json:"user_constraints"`
}

// ContextAwareChatHandler answers one chat message with page-scoped
// context. Replies are normalized before they leave the server.
func (h *Handler) ContextAwareChatHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	if err := utility.CheckIPRateLimit(utility.GetRealIP(c)); err != nil {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": err.Error()})
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}
	if len(message) > maxChatMessageLen {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is too long"})
	}

	page, _ := geminiservice.PageContextFor(req.PageContext)
	prompt := geminiservice.BuildChatPrompt(geminiservice.ChatPromptInput{
		Message:     message,
		PageContext: req.PageContext,
		History:     req.History,
		Constraints: req.UserConstraints,
		Now:         h.now(),
	})

	text, genErr := h.generator.Generate(ctx, prompt)
	result := geminiservice.Classify(text, genErr)
	if result.Kind != geminiservice.Ok {
		log.Warn().Err(genErr).Str("user_id", userID).Str("page", page).Msg("Chat generation degraded")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"response":     geminiservice.FormatChatReply(result.Text),
		"page_context": page,
	})
}
