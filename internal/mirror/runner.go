package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/the-real-tokai/unexotica-mirror/internal/archive"
	"github.com/the-real-tokai/unexotica-mirror/internal/catalog"
	"github.com/the-real-tokai/unexotica-mirror/internal/config"
	"github.com/the-real-tokai/unexotica-mirror/internal/exotica"
	"github.com/the-real-tokai/unexotica-mirror/internal/lha"
	"github.com/the-real-tokai/unexotica-mirror/internal/postproc"
)

// Mirrorer orchestrates one mirroring run: the index crawl, the per-entry
// metadata pass, and the archive and cover download passes. Passes run in
// order; within a pass, entries are independent and go through the worker
// pool.
type Mirrorer struct {
	cfg         *config.Config
	client      *exotica.Client
	extractor   *archive.Extractor
	pool        *WorkerPool
	logger      *slog.Logger
	events      Events
	filter      *regexp.Regexp
	destination string

	// excludeArchive skips archive links matching a reserved category
	// (the skip-cdda option); nil means no exclusion.
	excludeArchive func(link string) bool
}

// Option configures a Mirrorer.
type Option func(*Mirrorer)

// WithEvents routes progress notifications to ev.
func WithEvents(ev Events) Option {
	return func(m *Mirrorer) { m.events = ev }
}

// WithOpenFunc swaps the archive container parser; tests use synthetic
// readers.
func WithOpenFunc(open archive.OpenFunc) Option {
	return func(m *Mirrorer) {
		m.extractor = archive.NewExtractor(open, m.logger)
	}
}

// New creates a Mirrorer from validated configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Mirrorer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	filter, err := cfg.CompileFilter()
	if err != nil {
		return nil, fmt.Errorf("compiling filter: %w", err)
	}

	destination, err := filepath.Abs(cfg.Mirror.Destination)
	if err != nil {
		return nil, fmt.Errorf("resolving destination: %w", err)
	}

	var limiter *exotica.RateLimiter
	if cfg.Network.RequestsPerSecond > 0 {
		limiter = exotica.NewRateLimiter(cfg.Network.RequestsPerSecond, cfg.Network.Concurrency)
	}

	m := &Mirrorer{
		cfg: cfg,
		client: exotica.NewClient(exotica.ClientOptions{
			BaseURL:   cfg.Network.BaseURL,
			FilesURL:  cfg.Network.FilesURL,
			UserAgent: cfg.Network.UserAgent,
			Limiter:   limiter,
		}, logger),
		pool:        NewWorkerPool(cfg.Network.Concurrency),
		logger:      logger,
		events:      noopEvents{},
		filter:      filter,
		destination: destination,
	}
	m.extractor = archive.NewExtractor(func(data []byte) (archive.Reader, error) {
		return lha.Open(data)
	}, logger)

	if cfg.Mirror.SkipCDDA {
		m.excludeArchive = IsCDDALink
	}

	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Result contains statistics from one run.
type Result struct {
	Titles    int // entries selected for processing
	New       int
	Updated   int
	Unchanged int
	Failed    int

	ArchivesScheduled  int
	ArchivesDownloaded int
	ArchivesInvalid    int
	ArchivesFailed     int

	CoversScheduled  int
	CoversDownloaded int
	CoversFailed     int

	Errors   []error
	Duration time.Duration
}

// Run executes one mirroring run. Only the index fetch is fatal: without it
// there is nothing to enumerate. Every per-entry, per-archive, and per-cover
// failure is logged, counted, and isolated from its siblings.
func (m *Mirrorer) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}

	m.logger.Info("mirroring", "destination", m.destination,
		"filter", m.cfg.Mirror.Filter, "concurrency", m.cfg.Network.Concurrency)

	indexText, err := m.client.FetchIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching title index: %w", err)
	}

	entries := m.selectEntries(catalog.ParseIndex(indexText))
	res.Titles = len(entries)
	m.logger.Info("titles selected", "count", len(entries))

	// Metadata pass: classify each entry against its cache and collect the
	// download tasks.
	var (
		mu       sync.Mutex
		archives []ArchiveTask
		covers   []CoverTask
	)
	for _, e := range entries {
		m.events.AddItem("meta:"+e.RawName, e.RawName)
	}
	m.pool.ForEach(ctx, len(entries), func(i int) {
		e := entries[i]
		m.events.SetActive("meta:" + e.RawName)

		state, at, ct, err := m.processEntry(ctx, e)

		mu.Lock()
		defer mu.Unlock()
		switch state {
		case FetchedNew:
			res.New++
		case FetchedUpdated:
			res.Updated++
		case FetchedUnchanged:
			res.Unchanged++
		case FetchFailed:
			res.Failed++
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("%s: %w", e.RawName, err))
			m.events.SetFailed("meta:"+e.RawName, err.Error())
		} else {
			m.events.SetDone("meta:" + e.RawName)
		}
		if at != nil {
			archives = append(archives, *at)
		}
		if ct != nil {
			covers = append(covers, *ct)
		}
	})

	res.ArchivesScheduled = len(archives)
	res.CoversScheduled = len(covers)

	// Archive download pass.
	for _, t := range archives {
		m.events.AddItem("lha:"+t.Title, t.FileLink)
	}
	m.pool.ForEach(ctx, len(archives), func(i int) {
		t := archives[i]
		m.events.SetActive("lha:" + t.Title)
		err := m.downloadArchive(ctx, t, res, &mu)
		if err != nil {
			mu.Lock()
			res.Errors = append(res.Errors, fmt.Errorf("archive %s: %w", t.Title, err))
			mu.Unlock()
			m.events.SetFailed("lha:"+t.Title, err.Error())
		} else {
			m.events.SetDone("lha:" + t.Title)
		}
	})

	// Cover download pass.
	for _, t := range covers {
		m.events.AddItem("cover:"+t.Title, t.FileName)
	}
	m.pool.ForEach(ctx, len(covers), func(i int) {
		t := covers[i]
		m.events.SetActive("cover:" + t.Title)
		err := m.downloadCover(ctx, t)
		mu.Lock()
		if err != nil {
			res.CoversFailed++
			res.Errors = append(res.Errors, fmt.Errorf("cover %s: %w", t.Title, err))
		} else {
			res.CoversDownloaded++
		}
		mu.Unlock()
		if err != nil {
			m.events.SetFailed("cover:"+t.Title, err.Error())
		} else {
			m.events.SetDone("cover:" + t.Title)
		}
	})

	res.Duration = time.Since(start)
	m.logger.Info("mirror run complete",
		"titles", res.Titles,
		"new", res.New, "updated", res.Updated, "unchanged", res.Unchanged, "failed", res.Failed,
		"archives", res.ArchivesDownloaded, "invalid_archives", res.ArchivesInvalid,
		"covers", res.CoversDownloaded,
		"errors", len(res.Errors),
		"duration", res.Duration,
	)

	return res, nil
}

// selectEntries filters titles, drops directory collisions, and applies the
// courtesy limit on default-filter runs.
func (m *Mirrorer) selectEntries(titles []string) []catalog.Entry {
	var entries []catalog.Entry
	byDir := make(map[string]string)

	for _, title := range titles {
		if !m.filter.MatchString(title) {
			continue
		}
		e := catalog.NewEntry(title, m.destination)
		if prev, ok := byDir[e.Dir]; ok {
			// Two titles deriving the same directory would silently
			// overwrite each other; keep the first, deterministic one.
			m.logger.Warn("directory collision, skipping title",
				"title", title, "kept", prev, "dir", e.Dir)
			continue
		}
		byDir[e.Dir] = title
		entries = append(entries, e)
	}

	if limit := m.cfg.Mirror.EffectiveCourtesyLimit(); m.cfg.FilterIsDefault() && limit > 0 && len(entries) > limit {
		m.logger.Warn("limiting default-filter run, this will not be a full mirror",
			"limit", limit, "matched", len(entries))
		entries = entries[:limit]
	}

	return entries
}

// processEntry fetches one entry's wiki page, classifies it against the
// cache, and decides what to download. Scheduling deliberately ignores the
// changed/unchanged classification: an unchanged page whose archive file is
// missing locally still schedules a download (idempotent backfill).
func (m *Mirrorer) processEntry(ctx context.Context, e catalog.Entry) (FetchState, *ArchiveTask, *CoverTask, error) {
	m.logger.Info("processing", "title", e.RawName, "dir", e.Dir)

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return FetchFailed, nil, nil, fmt.Errorf("creating entry directory: %w", err)
	}

	data, err := m.client.FetchPage(ctx, e.RawName)
	if err != nil {
		m.logger.Error("could not fetch wiki entry", "title", e.RawName, "error", err)
		return FetchFailed, nil, nil, err
	}

	state, err := CompareAndStore(e.Dir, data)
	if err != nil {
		return FetchFailed, nil, nil, err
	}
	switch state {
	case FetchedNew:
		m.logger.Info("new wiki entry discovered", "title", e.RawName)
	case FetchedUpdated:
		m.logger.Info("wiki entry updated since previous run", "title", e.RawName)
	case FetchedUnchanged:
		m.logger.Debug("wiki entry unchanged", "title", e.RawName)
	}

	wikitext := string(data)

	// The archive link is re-derived on every successful fetch, not only on
	// change; whether to download is decided purely by the marker file.
	link, err := exotica.ExtractArchiveLink(wikitext)
	if err != nil {
		m.logger.Error("could not extract archive link", "title", e.RawName, "error", err)
		return FetchFailed, nil, nil, err
	}

	var archiveTask *ArchiveTask
	switch {
	case m.excludeArchive != nil && m.excludeArchive(link):
		m.logger.Info("skipping excluded archive", "title", e.RawName, "link", link)
	case fileExists(filepath.Join(e.Dir, ArchiveFile)):
		m.logger.Debug("archive already downloaded", "title", e.RawName)
	default:
		archiveTask = &ArchiveTask{FileLink: link, Dir: e.Dir, Title: e.RawName}
		m.logger.Info("archive scheduled for download", "title", e.RawName, "link", link)
	}

	coverName, err := exotica.ExtractCoverLink(wikitext)
	if err != nil {
		// The archive task survives; only the cover is skipped.
		m.logger.Warn("could not extract cover link", "title", e.RawName, "error", err)
		return state, archiveTask, nil, nil
	}

	var coverTask *CoverTask
	if coverName != exotica.BlankCover {
		t := CoverTask{FileName: coverName, Dir: e.Dir, Title: e.RawName}
		if fileExists(t.Filename()) {
			m.logger.Debug("cover already downloaded", "title", e.RawName)
		} else {
			coverTask = &t
			m.logger.Info("cover scheduled for download", "title", e.RawName, "file", coverName)
		}
	}

	return state, archiveTask, coverTask, nil
}

// downloadArchive fetches one archive, validates it, persists it, and
// extracts it into the entry directory. A body that fails the magic check is
// never written, so the next run retries the download; an archive that fails
// after the magic check stays on disk, flagged for manual review. Neither
// case aborts the run.
func (m *Mirrorer) downloadArchive(ctx context.Context, t ArchiveTask, res *Result, mu *sync.Mutex) error {
	m.logger.Info("fetching archive", "title", t.Title, "link", t.FileLink)

	data, err := m.client.FetchArchive(ctx, t.FileLink)
	if err != nil {
		mu.Lock()
		res.ArchivesFailed++
		mu.Unlock()
		return err
	}

	if err := archive.Validate(data); err != nil {
		mu.Lock()
		res.ArchivesInvalid++
		mu.Unlock()
		m.logger.Error("downloaded file is not a valid archive",
			"title", t.Title, "error", err)
		return err
	}

	if err := os.WriteFile(t.Filename(), data, 0o644); err != nil {
		mu.Lock()
		res.ArchivesFailed++
		mu.Unlock()
		return fmt.Errorf("saving archive: %w", err)
	}

	report, err := m.extractor.Extract(data, t.Dir)
	if err != nil {
		mu.Lock()
		res.ArchivesInvalid++
		mu.Unlock()

		var escape *archive.PathEscapeError
		if errors.As(err, &escape) {
			m.logger.Error("archive rejected, entry escapes destination",
				"title", t.Title, "error", err)
		} else {
			m.logger.Error("could not extract archive", "title", t.Title, "error", err)
		}

		// Keep the file but make the directory stand out for manual review.
		postproc.FlagForReview(ctx, t.Dir, m.logger)
		return err
	}

	mu.Lock()
	res.ArchivesDownloaded++
	mu.Unlock()
	m.logger.Info("archive extracted", "title", t.Title,
		"files", len(report.Written), "stripped_base", report.CommonBase)
	return nil
}

// downloadCover fetches one box scan and hands it to the optional optimizer.
func (m *Mirrorer) downloadCover(ctx context.Context, t CoverTask) error {
	m.logger.Info("fetching cover", "title", t.Title, "file", t.FileName)

	data, err := m.client.FetchCover(ctx, t.FileName)
	if err != nil {
		return err
	}

	if err := os.WriteFile(t.Filename(), data, 0o644); err != nil {
		return fmt.Errorf("saving cover: %w", err)
	}

	postproc.OptimizeCover(ctx, t.Filename(), m.logger)
	return nil
}
