package persistence

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"blog-cms/internal/domain"
)

type document struct {
	Users    map[string]userRecord `json:"users"`
	Posts    map[string]postRecord `json:"posts"`
	Counters counters              `json:"counters"`
}

type userRecord struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Login     string    `json:"login"`
	CreatedAt timestamp `json:"created_at"`
	UpdatedAt timestamp `json:"updated_at"`
}

type postRecord struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt timestamp `json:"created_at"`
	UpdatedAt timestamp `json:"updated_at"`
}

// zonelessLayout matches ISO 8601 values written without a UTC offset.
const zonelessLayout = "2006-01-02T15:04:05.999999999"

// timestamp is written as RFC 3339. On read it also accepts values without an
// offset and takes them as UTC.
type timestamp struct {
	time.Time
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(zonelessLayout, raw, time.UTC)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", raw, err)
	}
	t.Time = parsed
	return nil
}

// counters hold the next id to assign.
type counters struct {
	UserID int64 `json:"user_id"`
	PostID int64 `json:"post_id"`
}

// EncodeSnapshot renders the snapshot as the on-disk JSON document.
func EncodeSnapshot(snap domain.Snapshot) ([]byte, error) {
	doc := document{
		Users: make(map[string]userRecord, len(snap.Users)),
		Posts: make(map[string]postRecord, len(snap.Posts)),
		Counters: counters{
			UserID: snap.NextUserID,
			PostID: snap.NextPostID,
		},
	}
	for _, u := range snap.Users {
		doc.Users[strconv.FormatInt(u.ID, 10)] = userRecord{
			ID:        u.ID,
			Email:     u.Email,
			Login:     u.Login,
			CreatedAt: timestamp{u.CreatedAt},
			UpdatedAt: timestamp{u.UpdatedAt},
		}
	}
	for _, p := range snap.Posts {
		doc.Posts[strconv.FormatInt(p.ID, 10)] = postRecord{
			ID:        p.ID,
			AuthorID:  p.AuthorID,
			Title:     p.Title,
			Content:   p.Content,
			CreatedAt: timestamp{p.CreatedAt},
			UpdatedAt: timestamp{p.UpdatedAt},
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a JSON document. Users and posts come back ordered
// by id. Missing counters decode as zero.
func DecodeSnapshot(data []byte) (*domain.Snapshot, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	snap := &domain.Snapshot{
		Users:      make([]domain.User, 0, len(doc.Users)),
		Posts:      make([]domain.Post, 0, len(doc.Posts)),
		NextUserID: doc.Counters.UserID,
		NextPostID: doc.Counters.PostID,
	}
	for key, rec := range doc.Users {
		id, err := recordID("user", key, rec.ID)
		if err != nil {
			return nil, err
		}
		snap.Users = append(snap.Users, domain.User{
			ID:        id,
			Email:     rec.Email,
			Login:     rec.Login,
			CreatedAt: rec.CreatedAt.Time,
			UpdatedAt: rec.UpdatedAt.Time,
		})
	}
	for key, rec := range doc.Posts {
		id, err := recordID("post", key, rec.ID)
		if err != nil {
			return nil, err
		}
		snap.Posts = append(snap.Posts, domain.Post{
			ID:        id,
			AuthorID:  rec.AuthorID,
			Title:     rec.Title,
			Content:   rec.Content,
			CreatedAt: rec.CreatedAt.Time,
			UpdatedAt: rec.UpdatedAt.Time,
		})
	}

	sort.Slice(snap.Users, func(i, j int) bool { return snap.Users[i].ID < snap.Users[j].ID })
	sort.Slice(snap.Posts, func(i, j int) bool { return snap.Posts[i].ID < snap.Posts[j].ID })
	return snap, nil
}

// recordID reconciles the map key with the id stored inside the record.
func recordID(kind, key string, id int64) (int64, error) {
	keyID, err := strconv.ParseInt(key, 10, 64)
	if err != nil || keyID <= 0 {
		return 0, fmt.Errorf("invalid %s key %q", kind, key)
	}
	if id == 0 {
		return keyID, nil
	}
	if id != keyID {
		return 0, fmt.Errorf("%s key %q does not match id %d", kind, key, id)
	}
	return id, nil
}
