package http

import (
	"context"
	"fmt"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"

	"gamecatalog/app/internal/presentation/http/templates"
)

type healthResponse struct {
	Status int
	Body   struct {
		Status string `json:"status"`
		Store  string `json:"store"`
	}
}

func (s *Server) registerHomeRoute() {
	huma.Get(s.api, "/", s.homeHandler, htmlOperation("get-home", "Game catalog home", stdhttp.StatusOK, stdhttp.StatusInternalServerError))
}

func (s *Server) registerPlatformPageRoute() {
	huma.Get(s.api, "/platforms", s.platformListHandler, htmlOperation(
		"list-platforms-page",
		"Browse platforms",
		stdhttp.StatusOK,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.OperationID = "get-health"
		op.Summary = "Health check"
	})
}

func (s *Server) homeHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	data := templates.HomePageData{
		Title:    "Game Catalog",
		Subtitle: "A catalog of gaming platforms and the games released on them.",
	}

	body, err := renderComponent(ctx, templates.HomePage(data))
	if err != nil {
		s.recordError(ctx, err, "rendering home page", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't render the homepage.")
	}

	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) platformListHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	platforms, err := s.catalog.ListPlatforms(ctx)
	if err != nil {
		s.recordError(ctx, err, "listing platforms for page", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	data := templates.PlatformListPageData{
		Title:     fmt.Sprintf("Platforms (%d) • Game Catalog", len(platforms)),
		Platforms: make([]templates.PlatformView, 0, len(platforms)),
	}
	for _, platform := range platforms {
		data.Platforms = append(data.Platforms, templates.PlatformView{
			Name:     platform.Name,
			Slug:     platform.Slug,
			URL:      "/platforms/" + platform.Slug,
			GamesURL: "/platforms/" + platform.Slug + "/games",
		})
	}

	body, err := renderComponent(ctx, templates.PlatformListPage(data))
	if err != nil {
		s.recordError(ctx, err, "rendering platform list page", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't render the platform list.")
	}

	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{Status: stdhttp.StatusOK}
	resp.Body.Status = "ok"
	resp.Body.Store = "ok"

	if err := s.catalog.Ping(ctx); err != nil {
		s.recordError(ctx, err, "pinging catalog store", nil)
		resp.Status = stdhttp.StatusServiceUnavailable
		resp.Body.Status = "degraded"
		resp.Body.Store = "error"
	}

	return resp, nil
}
