package http

import (
	"context"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"gamecatalog/app/internal/domain/catalog"
)

type slugInput struct {
	Slug string `path:"slug"`
}

type platformRequest struct {
	Name string `json:"name"`
}

func (r platformRequest) toInput() catalog.PlatformInput {
	return catalog.PlatformInput{Name: r.Name}
}

func (s *Server) registerPlatformRoutes() {
	huma.Get(s.api, "/platforms/{slug}", s.getPlatformHandler, jsonOperation(
		"get-platform",
		"Fetch platform",
		stdhttp.StatusOK,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))

	huma.Post(s.api, "/platforms", s.createPlatformHandler, jsonOperation(
		"create-platform",
		"Create platform",
		stdhttp.StatusCreated,
		stdhttp.StatusBadRequest,
		stdhttp.StatusRequestEntityTooLarge,
		stdhttp.StatusInternalServerError,
	))

	huma.Put(s.api, "/platforms/{slug}", s.updatePlatformHandler, jsonOperation(
		"update-platform",
		"Update platform",
		stdhttp.StatusNoContent,
		stdhttp.StatusBadRequest,
		stdhttp.StatusRequestEntityTooLarge,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))

	huma.Delete(s.api, "/platforms/{slug}", s.deletePlatformHandler, jsonOperation(
		"delete-platform",
		"Delete platform",
		stdhttp.StatusNoContent,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))

	huma.Get(s.api, "/platforms/{slug}/games", s.listPlatformGamesHandler, jsonOperation(
		"list-platform-games",
		"List games of a platform",
		stdhttp.StatusOK,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) getPlatformHandler(ctx context.Context, input *slugInput) (*jsonResponse, error) {
	platform, err := s.catalog.GetPlatform(ctx, input.Slug)
	if err != nil {
		return s.catalogErrorResponse(ctx, err, "fetching platform", logrus.Fields{"slug": input.Slug}), nil
	}

	return s.newJSONResponse(ctx, stdhttp.StatusOK, platform), nil
}

func (s *Server) createPlatformHandler(ctx context.Context, input *createInput) (*jsonResponse, error) {
	var req platformRequest
	if err := input.decode(&req); err != nil {
		return s.catalogErrorResponse(ctx, err, "decoding platform", nil), nil
	}

	platform, err := s.catalog.CreatePlatform(ctx, req.toInput())
	if err != nil {
		return s.catalogErrorResponse(ctx, err, "creating platform", logrus.Fields{"name": req.Name}), nil
	}

	return s.newJSONResponse(ctx, stdhttp.StatusCreated, platform), nil
}

func (s *Server) updatePlatformHandler(ctx context.Context, input *updateInput) (*jsonResponse, error) {
	var req platformRequest
	if err := input.decode(&req); err != nil {
		return s.catalogErrorResponse(ctx, err, "decoding platform", nil), nil
	}

	if err := s.catalog.UpdatePlatform(ctx, input.Slug, req.toInput()); err != nil {
		return s.catalogErrorResponse(ctx, err, "updating platform", logrus.Fields{"slug": input.Slug}), nil
	}

	return newEmptyResponse(stdhttp.StatusNoContent), nil
}

func (s *Server) deletePlatformHandler(ctx context.Context, input *slugInput) (*jsonResponse, error) {
	if err := s.catalog.DeletePlatform(ctx, input.Slug); err != nil {
		return s.catalogErrorResponse(ctx, err, "deleting platform", logrus.Fields{"slug": input.Slug}), nil
	}

	return newEmptyResponse(stdhttp.StatusNoContent), nil
}

func (s *Server) listPlatformGamesHandler(ctx context.Context, input *slugInput) (*jsonResponse, error) {
	games, err := s.catalog.ListPlatformGames(ctx, input.Slug)
	if err != nil {
		return s.catalogErrorResponse(ctx, err, "listing platform games", logrus.Fields{"slug": input.Slug}), nil
	}

	return s.newJSONResponse(ctx, stdhttp.StatusOK, games), nil
}
