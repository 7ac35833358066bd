package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"

	"blog-cms/internal/domain"
	"blog-cms/internal/persistence"
)

func fixtureSnapshot() domain.Snapshot {
	ts := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	return domain.Snapshot{
		Users: []domain.User{{ID: 1, Email: "a@example.com", Login: "a", CreatedAt: ts, UpdatedAt: ts}},
		Posts: []domain.Post{
			{ID: 1, AuthorID: 1, Title: "t", Content: "c", CreatedAt: ts, UpdatedAt: ts},
			{ID: 2, AuthorID: 5, Title: "orphan", Content: "c", CreatedAt: ts, UpdatedAt: ts},
		},
		NextUserID: 2,
		NextPostID: 3,
	}
}

func TestWriteStats(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	p := persistence.NewFileStore(afero.NewMemMapFs(), "data.json")

	var buf bytes.Buffer
	c.Assert(writeStats(ctx, &buf, p), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "no saved data\n")

	c.Assert(p.Save(ctx, fixtureSnapshot()), qt.IsNil)
	buf.Reset()
	c.Assert(writeStats(ctx, &buf, p), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "users: 1\nposts: 2\nnext user id: 2\nnext post id: 3\n")
}

func TestExportImportBetweenBackends(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	logger, _ := test.NewNullLogger()

	c.Assert(afero.WriteFile(fs, "in.json", mustEncode(c, fixtureSnapshot()), 0o644), qt.IsNil)

	db, err := persistence.OpenSQLite(ctx, filepath.Join(t.TempDir(), "blog.db"))
	c.Assert(err, qt.IsNil)
	defer db.Close()

	c.Assert(importSnapshot(ctx, db, fs, "in.json", logger), qt.IsNil)
	loaded, err := db.Load(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.Users, qt.HasLen, 1)
	c.Assert(loaded.Posts, qt.HasLen, 1)
	c.Assert(loaded.NextPostID, qt.Equals, int64(3))

	c.Assert(exportSnapshot(ctx, db, fs, "out.json"), qt.IsNil)
	exported, err := persistence.NewFileStore(fs, "out.json").Load(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(exported, qt.DeepEquals, loaded)
}

func TestImportMissingFile(t *testing.T) {
	c := qt.New(t)
	logger, _ := test.NewNullLogger()
	p := persistence.NewFileStore(afero.NewMemMapFs(), "data.json")

	err := importSnapshot(context.Background(), p, afero.NewMemMapFs(), "missing.json", logger)
	c.Assert(err, qt.ErrorMatches, "missing.json does not exist")
}

func TestExportWithoutData(t *testing.T) {
	c := qt.New(t)
	fs := afero.NewMemMapFs()
	p := persistence.NewFileStore(fs, "data.json")

	err := exportSnapshot(context.Background(), p, fs, "out.json")
	c.Assert(err, qt.ErrorMatches, "nothing to export: no saved data")
}

func mustEncode(c *qt.C, snap domain.Snapshot) []byte {
	data, err := persistence.EncodeSnapshot(snap)
	c.Assert(err, qt.IsNil)
	return data
}
