// Package writer persists Posts as one Markdown file each in a flat output
// directory.
package writer

import (
	"context"
	"os"
	"path/filepath"

	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
	"git.home.luguber.info/inful/substack-dl/internal/logfields"
	"git.home.luguber.info/inful/substack-dl/internal/observability"
	"git.home.luguber.info/inful/substack-dl/internal/post"
	"git.home.luguber.info/inful/substack-dl/internal/workspace"
)

const fileMode = 0o644

// Report summarizes a successful Write. Written counts distinct files; posts
// sharing a file name overwrite each other and are counted once.
type Report struct {
	Dir     string
	Written int
	Files   []string
}

// Writer writes posts into directories managed by a workspace.Manager.
type Writer struct {
	ws *workspace.Manager
}

// New returns a Writer backed by ws.
func New(ws *workspace.Manager) *Writer {
	return &Writer{ws: ws}
}

// Workspace returns the directory manager the writer uses.
func (w *Writer) Workspace() *workspace.Manager {
	return w.ws
}

// Write stores every post as dir/Filename().
//
// If dir exists and overwrite is false the call fails with DirectoryExists and
// touches nothing. With overwrite the directory is removed first. Files written
// before a failing file are left in place.
func (w *Writer) Write(ctx context.Context, dir string, posts []post.Post, overwrite bool) (Report, error) {
	exists, err := w.ws.Exists(dir)
	if err != nil {
		return Report{}, err
	}
	if exists {
		if !overwrite {
			return Report{}, sderrors.DirectoryExistsError("overwrite not allowed").
				WithContext("dir", dir).
				Build()
		}
		if err := w.ws.Clear(dir); err != nil {
			return Report{}, err
		}
	}
	if err := w.ws.Create(dir); err != nil {
		return Report{}, err
	}

	report := Report{Dir: dir, Files: make([]string, 0, len(posts))}
	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			return report, sderrors.CanceledError("write canceled").WithCause(err).
				WithContext("written", report.Written).
				Build()
		}

		name := p.Filename()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(p.Body), fileMode); err != nil {
			return report, sderrors.WriteFailedError("failed to write post").WithCause(err).
				WithContext("file", path).
				WithContext("written", report.Written).
				Build()
		}
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			report.Written++
			report.Files = append(report.Files, name)
		}
		observability.DebugContext(ctx, "Wrote post", logfields.File(name), logfields.Slug(p.Slug))
	}
	return report, nil
}
