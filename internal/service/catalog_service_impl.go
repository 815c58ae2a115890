package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/domain"
)

type catalogService struct {
	store    app.RecordStore
	observer UseCaseObserver
}

func NewCatalogService(store app.RecordStore, observers ...UseCaseObserver) CatalogService {
	return &catalogService{store: store, observer: joinObservers(observers)}
}

func (s *catalogService) Templates(ctx context.Context) ([]domain.Template, error) {
	return s.store.ListTemplates(ctx)
}

func (s *catalogService) CreateTemplate(ctx context.Context, name string, steps []string) (tmpl *domain.Template, err error) {
	startedAt := time.Now()
	fields := map[string]any{"name": name}
	defer func() { observe(ctx, s.observer, "create-template", startedAt, fields, err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, app.Invalid("name", "template name is required")
	}
	cleaned := splitLines(strings.Join(steps, "\n"))
	if len(cleaned) == 0 {
		return nil, app.Invalid("steps", "a template needs at least one step")
	}
	fields["step_count"] = len(cleaned)
	return s.store.CreateTemplate(ctx, name, cleaned)
}

func (s *catalogService) DeleteTemplate(ctx context.Context, id int64) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "delete-template", startedAt, map[string]any{"template_id": id}, err) }()
	return s.store.DeleteTemplate(ctx, id)
}

func (s *catalogService) ScanLog(ctx context.Context, limit int) ([]domain.ScanLogEntry, error) {
	return s.store.ListScanLog(ctx, limit)
}

func (s *catalogService) ClearScanLog(ctx context.Context) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "clear-scan-log", startedAt, nil, err) }()
	return s.store.ClearScanLog(ctx)
}
