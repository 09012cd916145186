package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loan-backoffice/internal/domain/chat"
	"loan-backoffice/internal/domain/document"
	chatuc "loan-backoffice/internal/usecase/chat"
	docuc "loan-backoffice/internal/usecase/document"
)

// ClientFilesHandler serves the documents and the message thread of a client.
type ClientFilesHandler struct {
	docs *docuc.Usecase
	chat *chatuc.Usecase
}

func NewClientFilesHandler(docs *docuc.Usecase, chat *chatuc.Usecase) *ClientFilesHandler {
	return &ClientFilesHandler{docs: docs, chat: chat}
}

type registerDocumentReq struct {
	MimeType string `json:"mimeType" validate:"required,max=100"`
	URL      string `json:"url" validate:"required,url,max=1024"`
	Category string `json:"category"`
}

type documentCategoryReq struct {
	Category string `json:"category" validate:"required"`
}

type appendMessageReq struct {
	Message   string `json:"message" validate:"required"`
	Direction string `json:"direction" validate:"omitempty,oneof=INCOMING OUTGOING"`
}

func (h *ClientFilesHandler) RegisterDocument(c echo.Context) error {
	clientID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req registerDocumentReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	d, err := h.docs.Register(c.Request().Context(), actor(c), clientID, docuc.RegisterInput{
		MimeType: req.MimeType,
		URL:      req.URL,
		Category: document.Category(req.Category),
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "document registered", d)
}

func (h *ClientFilesHandler) ListDocuments(c echo.Context) error {
	clientID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	list, err := h.docs.ListByClient(c.Request().Context(), actor(c), clientID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ClientFilesHandler) UpdateDocumentCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req documentCategoryReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	d, err := h.docs.UpdateCategory(c.Request().Context(), actor(c), id, document.Category(req.Category))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "document updated", d)
}

func (h *ClientFilesHandler) AppendMessage(c echo.Context) error {
	clientID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req appendMessageReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	m, err := h.chat.Append(c.Request().Context(), actor(c), clientID, chatuc.AppendInput{
		Message:   req.Message,
		Direction: chat.Direction(req.Direction),
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "message added", m)
}

func (h *ClientFilesHandler) ListMessages(c echo.Context) error {
	clientID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	list, err := h.chat.ListByClient(c.Request().Context(), actor(c), clientID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
