package http

import (
	"context"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"gamecatalog/app/internal/domain/catalog"
)

type gameRequest struct {
	Name         string `json:"name"`
	PlatformSlug string `json:"platform_slug"`
}

func (r gameRequest) toInput() catalog.GameInput {
	return catalog.GameInput{Name: r.Name, PlatformSlug: r.PlatformSlug}
}

func (s *Server) registerGameRoutes() {
	huma.Get(s.api, "/games", s.listGamesHandler, jsonOperation(
		"list-games",
		"List games",
		stdhttp.StatusOK,
		stdhttp.StatusInternalServerError,
	))

	huma.Get(s.api, "/games/{slug}", s.getGameHandler, jsonOperation(
		"get-game",
		"Fetch game",
		stdhttp.StatusOK,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))

	huma.Post(s.api, "/games", s.createGameHandler, jsonOperation(
		"create-game",
		"Create game",
		stdhttp.StatusCreated,
		stdhttp.StatusBadRequest,
		stdhttp.StatusRequestEntityTooLarge,
		stdhttp.StatusInternalServerError,
	))

	huma.Put(s.api, "/games/{slug}", s.updateGameHandler, jsonOperation(
		"update-game",
		"Update game",
		stdhttp.StatusNoContent,
		stdhttp.StatusBadRequest,
		stdhttp.StatusRequestEntityTooLarge,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))

	huma.Delete(s.api, "/games/{slug}", s.deleteGameHandler, jsonOperation(
		"delete-game",
		"Delete game",
		stdhttp.StatusNoContent,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) listGamesHandler(ctx context.Context, _ *struct{}) (*jsonResponse, error) {
	games, err := s.catalog.ListGames(ctx)
	if err != nil {
		return s.catalogErrorResponse(ctx, err, "listing games", nil), nil
	}

	return s.newJSONResponse(ctx, stdhttp.StatusOK, games), nil
}

func (s *Server) getGameHandler(ctx context.Context, input *slugInput) (*jsonResponse, error) {
	game, err := s.catalog.GetGame(ctx, input.Slug)
	if err != nil {
		return s.catalogErrorResponse(ctx, err, "fetching game", logrus.Fields{"slug": input.Slug}), nil
	}

	return s.newJSONResponse(ctx, stdhttp.StatusOK, game), nil
}

func (s *Server) createGameHandler(ctx context.Context, input *createInput) (*jsonResponse, error) {
	var req gameRequest
	if err := input.decode(&req); err != nil {
		return s.catalogErrorResponse(ctx, err, "decoding game", nil), nil
	}

	game, err := s.catalog.CreateGame(ctx, req.toInput())
	if err != nil {
		fields := logrus.Fields{"name": req.Name, "platform_slug": req.PlatformSlug}
		return s.catalogErrorResponse(ctx, err, "creating game", fields), nil
	}

	return s.newJSONResponse(ctx, stdhttp.StatusCreated, game), nil
}

func (s *Server) updateGameHandler(ctx context.Context, input *updateInput) (*jsonResponse, error) {
	var req gameRequest
	if err := input.decode(&req); err != nil {
		return s.catalogErrorResponse(ctx, err, "decoding game", nil), nil
	}

	if err := s.catalog.UpdateGame(ctx, input.Slug, req.toInput()); err != nil {
		return s.catalogErrorResponse(ctx, err, "updating game", logrus.Fields{"slug": input.Slug}), nil
	}

	return newEmptyResponse(stdhttp.StatusNoContent), nil
}

func (s *Server) deleteGameHandler(ctx context.Context, input *slugInput) (*jsonResponse, error) {
	if err := s.catalog.DeleteGame(ctx, input.Slug); err != nil {
		return s.catalogErrorResponse(ctx, err, "deleting game", logrus.Fields{"slug": input.Slug}), nil
	}

	return newEmptyResponse(stdhttp.StatusNoContent), nil
}
