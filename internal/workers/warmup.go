package workers

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/logger"
	"github.com/yoockh/talentscope/internal/services"
)

// TopTalentWarmer keeps the cached top talent views fresh on a cron schedule.
type TopTalentWarmer struct {
	cron   *cron.Cron
	search services.SearchService
	spec   string
	limits []int
	log    *logrus.Entry
}

func NewTopTalentWarmer(search services.SearchService, spec string, limits []int, l *logrus.Logger) *TopTalentWarmer {
	entry := logger.Component(l, "warmup")
	if len(limits) == 0 {
		limits = []int{services.DefaultTopLimit}
	}
	return &TopTalentWarmer{
		cron:   cron.New(cron.WithLogger(cronLogger{entry})),
		search: search,
		spec:   spec,
		limits: limits,
		log:    entry,
	}
}

// Start registers the job, starts the scheduler and runs one warm-up right
// away so the first visitor gets a cached view.
func (w *TopTalentWarmer) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.spec, func() { w.Run(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	w.cron.Start()
	w.log.WithField("spec", w.spec).Info("top talent warm-up scheduled")

	go w.Run(ctx)
	return nil
}

// Stop waits for a running warm-up to finish.
func (w *TopTalentWarmer) Stop() {
	<-w.cron.Stop().Done()
}

func (w *TopTalentWarmer) Run(ctx context.Context) {
	for _, limit := range w.limits {
		if ctx.Err() != nil {
			return
		}
		if err := w.search.WarmTop(ctx, limit); err != nil {
			w.log.WithError(err).WithField("limit", limit).Warn("top talent warm-up failed")
			continue
		}
		w.log.WithField("limit", limit).Debug("top talent warmed")
	}
}

type cronLogger struct{ e *logrus.Entry }

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.e.WithFields(kvFields(keysAndValues)).Debug(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.e.WithError(err).WithFields(kvFields(keysAndValues)).Error(msg)
}

func kvFields(kv []any) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}
