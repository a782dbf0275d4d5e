package catalog

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
)

func TestServiceCreatePlatformDerivesSlug(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, store := newTestService(t)

	platform, err := service.CreatePlatform(ctx, PlatformInput{Name: " Super Nintendo "})
	if err != nil {
		t.Fatalf("CreatePlatform returned error: %v", err)
	}

	if platform.Name != "Super Nintendo" || platform.Slug != "super-nintendo" {
		t.Fatalf("unexpected platform %#v", platform)
	}

	if len(store.platforms) != 1 {
		t.Fatalf("expected one stored platform, got %d", len(store.platforms))
	}
}

func TestServiceCreatePlatformRequiresName(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)

	_, err := service.CreatePlatform(context.Background(), PlatformInput{Name: "   "})

	var missing *MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldsError, got %v", err)
	}
	if len(missing.Fields) != 1 || missing.Fields[0] != "name" {
		t.Fatalf("expected missing [name], got %v", missing.Fields)
	}
	if store.findCalls != 0 {
		t.Fatalf("expected no store lookups on invalid input, got %d", store.findCalls)
	}
}

func TestServiceCreatePlatformRejectsDuplicateName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, store := newTestService(t)

	if _, err := service.CreatePlatform(ctx, PlatformInput{Name: "Genesis"}); err != nil {
		t.Fatalf("CreatePlatform returned error: %v", err)
	}

	_, err := service.CreatePlatform(ctx, PlatformInput{Name: "Genesis"})
	if !eris.Is(err, ErrPlatformExists) {
		t.Fatalf("expected ErrPlatformExists, got %v", err)
	}

	if len(store.platforms) != 1 {
		t.Fatalf("expected collection to remain at one platform, got %d", len(store.platforms))
	}
}

func TestServiceCreatePlatformRejectsUnsluggableName(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)

	_, err := service.CreatePlatform(context.Background(), PlatformInput{Name: "!!!"})
	if !eris.Is(err, ErrEmptySlug) {
		t.Fatalf("expected ErrEmptySlug, got %v", err)
	}
	if len(store.platforms) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(store.platforms))
	}
}

func TestServiceGetPlatformNotFound(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)

	_, err := service.GetPlatform(context.Background(), "missing")
	if !eris.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceUpdatePlatformKeepsSlug(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.CreatePlatform(ctx, PlatformInput{Name: "Game Boy"}); err != nil {
		t.Fatalf("CreatePlatform returned error: %v", err)
	}

	if err := service.UpdatePlatform(ctx, "game-boy", PlatformInput{Name: "Game Boy Color"}); err != nil {
		t.Fatalf("UpdatePlatform returned error: %v", err)
	}

	platform, err := service.GetPlatform(ctx, "game-boy")
	if err != nil {
		t.Fatalf("GetPlatform returned error: %v", err)
	}
	if platform.Name != "Game Boy Color" {
		t.Fatalf("expected updated name, got %q", platform.Name)
	}
	if platform.Slug != "game-boy" {
		t.Fatalf("expected slug to stay game-boy, got %q", platform.Slug)
	}
}

func TestServiceUpdatePlatformValidatesBeforeLookup(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)

	err := service.UpdatePlatform(context.Background(), "missing", PlatformInput{})

	var missing *MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldsError, got %v", err)
	}
	if store.findCalls != 0 {
		t.Fatalf("expected no lookups, got %d", store.findCalls)
	}
}

func TestServiceUpdatePlatformNotFound(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)

	err := service.UpdatePlatform(context.Background(), "missing", PlatformInput{Name: "X"})
	if !eris.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceDeletePlatformTwice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.CreatePlatform(ctx, PlatformInput{Name: "Saturn"}); err != nil {
		t.Fatalf("CreatePlatform returned error: %v", err)
	}

	if err := service.DeletePlatform(ctx, "saturn"); err != nil {
		t.Fatalf("DeletePlatform returned error: %v", err)
	}

	if err := service.DeletePlatform(ctx, "saturn"); !eris.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestServiceCreateGameRequiresBothFields(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)

	_, err := service.CreateGame(context.Background(), GameInput{})

	var missing *MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldsError, got %v", err)
	}

	expected := []string{"name", "platform_slug"}
	if len(missing.Fields) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, missing.Fields)
	}
	for i, field := range expected {
		if missing.Fields[i] != field {
			t.Fatalf("expected %q at index %d, got %q", field, i, missing.Fields[i])
		}
	}
}

func TestServiceCreateGameRejectsUnknownPlatform(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)

	_, err := service.CreateGame(context.Background(), GameInput{Name: "Zelda", PlatformSlug: "nes"})
	if !eris.Is(err, ErrUnknownPlatform) {
		t.Fatalf("expected ErrUnknownPlatform, got %v", err)
	}
	if len(store.games) != 0 {
		t.Fatalf("expected no games stored, got %d", len(store.games))
	}
}

func TestServiceCreateGameRejectsDuplicatePair(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, store := newTestService(t)

	if _, err := service.CreatePlatform(ctx, PlatformInput{Name: "Super Nintendo"}); err != nil {
		t.Fatalf("CreatePlatform returned error: %v", err)
	}

	game, err := service.CreateGame(ctx, GameInput{Name: "Zelda", PlatformSlug: "super-nintendo"})
	if err != nil {
		t.Fatalf("CreateGame returned error: %v", err)
	}
	if game.Slug != "zelda" || game.PlatformSlug != "super-nintendo" {
		t.Fatalf("unexpected game %#v", game)
	}

	_, err = service.CreateGame(ctx, GameInput{Name: "Zelda", PlatformSlug: "super-nintendo"})
	if !eris.Is(err, ErrGameExists) {
		t.Fatalf("expected ErrGameExists, got %v", err)
	}

	if len(store.games) != 1 {
		t.Fatalf("expected exactly one game stored, got %d", len(store.games))
	}
}

func TestServiceListPlatformGamesFiltersBySlug(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService(t)

	for _, name := range []string{"Super Nintendo", "Genesis"} {
		if _, err := service.CreatePlatform(ctx, PlatformInput{Name: name}); err != nil {
			t.Fatalf("CreatePlatform returned error: %v", err)
		}
	}
	if _, err := service.CreateGame(ctx, GameInput{Name: "Zelda", PlatformSlug: "super-nintendo"}); err != nil {
		t.Fatalf("CreateGame returned error: %v", err)
	}
	if _, err := service.CreateGame(ctx, GameInput{Name: "Sonic", PlatformSlug: "genesis"}); err != nil {
		t.Fatalf("CreateGame returned error: %v", err)
	}

	games, err := service.ListPlatformGames(ctx, "super-nintendo")
	if err != nil {
		t.Fatalf("ListPlatformGames returned error: %v", err)
	}
	if len(games) != 1 || games[0].Name != "Zelda" {
		t.Fatalf("expected only Zelda, got %#v", games)
	}

	unknown, err := service.ListPlatformGames(ctx, "dreamcast")
	if err != nil {
		t.Fatalf("ListPlatformGames returned error: %v", err)
	}
	if unknown == nil || len(unknown) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", unknown)
	}

	all, err := service.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected two games, got %d", len(all))
	}
}

func TestServiceUpdateGameAppliesFieldsWithoutPlatformCheck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.CreatePlatform(ctx, PlatformInput{Name: "NES"}); err != nil {
		t.Fatalf("CreatePlatform returned error: %v", err)
	}
	if _, err := service.CreateGame(ctx, GameInput{Name: "Metroid", PlatformSlug: "nes"}); err != nil {
		t.Fatalf("CreateGame returned error: %v", err)
	}

	if err := service.UpdateGame(ctx, "metroid", GameInput{Name: "Metroid II", PlatformSlug: "game-boy"}); err != nil {
		t.Fatalf("UpdateGame returned error: %v", err)
	}

	game, err := service.GetGame(ctx, "metroid")
	if err != nil {
		t.Fatalf("GetGame returned error: %v", err)
	}
	if game.Name != "Metroid II" || game.PlatformSlug != "game-boy" || game.Slug != "metroid" {
		t.Fatalf("unexpected game after update %#v", game)
	}
}

func TestServiceDeleteGame(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService(t)

	if err := service.DeleteGame(ctx, "ghost"); !eris.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := service.CreatePlatform(ctx, PlatformInput{Name: "NES"}); err != nil {
		t.Fatalf("CreatePlatform returned error: %v", err)
	}
	if _, err := service.CreateGame(ctx, GameInput{Name: "Metroid", PlatformSlug: "nes"}); err != nil {
		t.Fatalf("CreateGame returned error: %v", err)
	}

	if err := service.DeleteGame(ctx, "metroid"); err != nil {
		t.Fatalf("DeleteGame returned error: %v", err)
	}
	if _, err := service.GetGame(ctx, "metroid"); !eris.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestServicePropagatesStoreFailures(t *testing.T) {
	t.Parallel()

	service, store := newTestService(t)
	store.err = errors.New("connection reset")

	_, err := service.ListPlatforms(context.Background())
	if err == nil {
		t.Fatalf("expected store error to be propagated")
	}
	if eris.Is(err, ErrNotFound) {
		t.Fatalf("store failure must not look like not found")
	}
}

func TestServiceSlugLookupsAreExact(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.CreatePlatform(ctx, PlatformInput{Name: "Super Nintendo"}); err != nil {
		t.Fatalf("CreatePlatform returned error: %v", err)
	}
	if _, err := service.CreateGame(ctx, GameInput{Name: "Zelda", PlatformSlug: "super-nintendo"}); err != nil {
		t.Fatalf("CreateGame returned error: %v", err)
	}

	if _, err := service.GetPlatform(ctx, " super-nintendo"); !eris.Is(err, ErrNotFound) {
		t.Fatalf("expected padded platform slug to miss, got %v", err)
	}
	if _, err := service.GetGame(ctx, "zelda "); !eris.Is(err, ErrNotFound) {
		t.Fatalf("expected padded game slug to miss, got %v", err)
	}
	if err := service.DeletePlatform(ctx, "Super-Nintendo"); !eris.Is(err, ErrNotFound) {
		t.Fatalf("expected differently cased slug to miss, got %v", err)
	}

	games, err := service.ListPlatformGames(ctx, " super-nintendo")
	if err != nil {
		t.Fatalf("ListPlatformGames returned error: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected no games for padded slug, got %#v", games)
	}
}

func TestServiceTracesStoreFailuresBelowErrorLevel(t *testing.T) {
	t.Parallel()

	logger, hook := logrustest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	store := &memoryStore{err: errors.New("connection reset")}
	service, err := NewService(store, logger)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if _, err := service.GetPlatform(context.Background(), "genesis"); err == nil {
		t.Fatalf("expected store error to be propagated")
	}

	entries := hook.AllEntries()
	if len(entries) != 1 {
		t.Fatalf("expected one trace entry, got %d", len(entries))
	}
	if entries[0].Level != logrus.DebugLevel {
		t.Fatalf("expected debug level trace, got %s", entries[0].Level)
	}
	if entries[0].Data["slug"] != "genesis" {
		t.Fatalf("expected slug field on trace, got %v", entries[0].Data)
	}
}

func TestNewServiceRequiresStore(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil, nil); err == nil {
		t.Fatalf("expected error when store is nil")
	}
}

// helpers

func newTestService(t *testing.T) (Service, *memoryStore) {
	t.Helper()

	store := &memoryStore{}
	service, err := NewService(store, silentLogger())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return service, store
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type memoryStore struct {
	mu        sync.Mutex
	nextID    int
	platforms []Platform
	games     []Game
	findCalls int
	err       error
}

var _ Store = (*memoryStore)(nil)

func (m *memoryStore) id() string {
	m.nextID++
	return strconv.Itoa(m.nextID)
}

func (m *memoryStore) ListPlatforms(_ context.Context) ([]Platform, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]Platform(nil), m.platforms...), nil
}

func (m *memoryStore) FindPlatform(_ context.Context, filter PlatformFilter) (*Platform, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.platforms {
		if filter.Name != "" && p.Name != filter.Name {
			continue
		}
		if filter.Slug != "" && p.Slug != filter.Slug {
			continue
		}
		found := p
		return &found, nil
	}
	return nil, nil
}

func (m *memoryStore) InsertPlatform(_ context.Context, platform *Platform) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	platform.ID = m.id()
	m.platforms = append(m.platforms, *platform)
	return nil
}

func (m *memoryStore) ReplacePlatform(_ context.Context, platform *Platform) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.platforms {
		if m.platforms[i].ID == platform.ID {
			m.platforms[i] = *platform
			return nil
		}
	}
	return ErrNotFound
}

func (m *memoryStore) DeletePlatform(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.platforms {
		if m.platforms[i].ID == id {
			m.platforms = append(m.platforms[:i], m.platforms[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memoryStore) ListGames(_ context.Context, filter GameFilter) ([]Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var games []Game
	for _, g := range m.games {
		if matchesGame(g, filter) {
			games = append(games, g)
		}
	}
	return games, nil
}

func (m *memoryStore) FindGame(_ context.Context, filter GameFilter) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.err != nil {
		return nil, m.err
	}
	for _, g := range m.games {
		if matchesGame(g, filter) {
			found := g
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) InsertGame(_ context.Context, game *Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	game.ID = m.id()
	m.games = append(m.games, *game)
	return nil
}

func (m *memoryStore) ReplaceGame(_ context.Context, game *Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.games {
		if m.games[i].ID == game.ID {
			m.games[i] = *game
			return nil
		}
	}
	return ErrNotFound
}

func (m *memoryStore) DeleteGame(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.games {
		if m.games[i].ID == id {
			m.games = append(m.games[:i], m.games[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memoryStore) Ping(_ context.Context) error {
	return m.err
}

func matchesGame(g Game, filter GameFilter) bool {
	if filter.Name != "" && g.Name != filter.Name {
		return false
	}
	if filter.Slug != "" && g.Slug != filter.Slug {
		return false
	}
	if filter.PlatformSlug != "" && g.PlatformSlug != filter.PlatformSlug {
		return false
	}
	return true
}
