package handler

import (
	"supperchat/backend/internal/auth"
	"supperchat/backend/internal/chathub"
	"supperchat/backend/internal/config"
	"supperchat/backend/internal/storage"
)

// Handler carries the dependencies shared by all HTTP endpoints.
type Handler struct {
	Hub     *chathub.Hub
	Storage storage.Storage
	Auth    *auth.Service
	Cfg     config.Config
}

func NewHandler(hub *chathub.Hub, s storage.Storage, a *auth.Service, cfg config.Config) *Handler {
	return &Handler{Hub: hub, Storage: s, Auth: a, Cfg: cfg}
}
