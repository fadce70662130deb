package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"pocketblog/models"
	"pocketblog/validation"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PostsKey is the key the whole collection lives under.
const PostsKey = "posts"

var ErrCorruptStore = errors.New("post store is corrupt")

// CorruptStoreError carries the decode failure behind ErrCorruptStore.
type CorruptStoreError struct {
	Err error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("%s: %v", ErrCorruptStore, e.Err)
}

func (e *CorruptStoreError) Unwrap() error { return e.Err }

func (e *CorruptStoreError) Is(target error) bool { return target == ErrCorruptStore }

func corrupt(err error) error {
	return &CorruptStoreError{Err: err}
}

// PostStore loads and saves the post collection as one blob.
type PostStore struct {
	kv     KV
	logger *zap.Logger
}

func NewPostStore(kv KV, logger *zap.Logger) *PostStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostStore{kv: kv, logger: logger}
}

// Load returns the persisted collection. An absent key is an empty collection.
func (s *PostStore) Load(ctx context.Context) (models.Collection, error) {
	raw, ok, err := s.kv.Get(ctx, PostsKey)
	if err != nil {
		return nil, errors.Wrap(err, "error loading posts")
	}
	if !ok {
		s.logger.Debug("no stored posts, starting empty")
		return models.Collection{}, nil
	}

	posts, version, err := DecodeCollection(raw)
	if err != nil {
		s.logger.Warn("stored posts could not be decoded", zap.Error(err))
		return nil, err
	}
	if version < models.CurrentVersion {
		s.logger.Info("migrated stored posts",
			zap.Int("from_version", version),
			zap.Int("to_version", models.CurrentVersion),
			zap.Int("posts", len(posts)))
	}
	return posts, nil
}

// Save overwrites the stored collection with c. A collection Load would
// reject is refused and nothing is written.
func (s *PostStore) Save(ctx context.Context, c models.Collection) error {
	if err := validation.ValidateCollection(c); err != nil {
		return errors.Wrap(err, "refusing to save posts")
	}
	data, err := EncodeCollection(c)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, PostsKey, data); err != nil {
		return errors.Wrap(err, "error saving posts")
	}
	return nil
}

// Reset replaces whatever is stored, readable or not, with an empty collection.
func (s *PostStore) Reset(ctx context.Context) error {
	s.logger.Warn("resetting post store")
	return s.Save(ctx, models.Collection{})
}

func (s *PostStore) Close() error {
	return s.kv.Close()
}

// EncodeCollection renders c in the current envelope format.
func EncodeCollection(c models.Collection) (string, error) {
	data, err := json.Marshal(models.NewEnvelope(c))
	if err != nil {
		return "", errors.Wrap(err, "error marshalling posts")
	}
	return string(data), nil
}

// DecodeCollection parses a stored blob and reports the version it was written
// in. Bare arrays are the unversioned legacy format (version 0); blank
// placeholder posts found in them are dropped.
func DecodeCollection(raw string) (models.Collection, int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, 0, corrupt(errors.New("empty value"))
	}

	var (
		posts   models.Collection
		version int
	)
	switch trimmed[0] {
	case '[':
		if err := strictUnmarshal(trimmed, &posts); err != nil {
			return nil, 0, corrupt(errors.Wrap(err, "legacy array"))
		}
		posts = dropBlank(posts)
	case '{':
		var env models.Envelope
		if err := strictUnmarshal(trimmed, &env); err != nil {
			return nil, 0, corrupt(errors.Wrap(err, "envelope"))
		}
		if env.Version < 1 || env.Version > models.CurrentVersion {
			return nil, 0, corrupt(errors.Errorf("unsupported version %d", env.Version))
		}
		posts, version = env.Posts, env.Version
	default:
		return nil, 0, corrupt(errors.New("not a JSON array or object"))
	}

	if posts == nil {
		posts = models.Collection{}
	}
	if err := validation.ValidateCollection(posts); err != nil {
		return nil, 0, corrupt(err)
	}
	return posts, version, nil
}

func strictUnmarshal(data string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("trailing data")
	}
	return nil
}

func dropBlank(c models.Collection) models.Collection {
	out := c[:0]
	for _, p := range c {
		if !p.IsBlank() {
			out = append(out, p)
		}
	}
	return out
}
