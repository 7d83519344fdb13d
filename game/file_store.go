package game

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/codenamesimon/developers-day-slackbot/internal/fsstore"
)

var validSlackID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileStore keeps one JSON document per user under a root directory.
// Writers serialize on a shared lock file so concurrent events cannot
// interleave read-modify-write cycles; reads go lock-free because every
// write lands via atomic rename.
type FileStore struct {
	root string
}

// NewFileStore returns a store rooted at dir. Call Ensure before first use.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir}
}

// Ensure creates the backing directory if needed.
func (s *FileStore) Ensure() error {
	return fsstore.EnsureDir(s.root)
}

func (s *FileStore) userPath(slackID string) (string, error) {
	if slackID == "" || !validSlackID.MatchString(slackID) {
		return "", fmt.Errorf("%w: user id %q", fsstore.ErrInvalidPath, slackID)
	}
	return filepath.Join(s.root, slackID+".json"), nil
}

func (s *FileStore) lockPath() string {
	return filepath.Join(s.root, ".users.lck")
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, slackID string) (*User, bool, error) {
	path, err := s.userPath(slackID)
	if err != nil {
		return nil, false, err
	}
	var u User
	ok, err := fsstore.ReadJSON(path, &u)
	if err != nil || !ok {
		return nil, false, err
	}
	return &u, true, nil
}

// Put implements Store.
func (s *FileStore) Put(ctx context.Context, user *User) error {
	if user == nil {
		return fmt.Errorf("put user: nil record")
	}
	path, err := s.userPath(user.SlackID)
	if err != nil {
		return err
	}
	return fsstore.WithLock(ctx, s.lockPath(), func() error {
		return fsstore.WriteJSON(path, user)
	})
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context, slackID string) error {
	path, err := s.userPath(slackID)
	if err != nil {
		return err
	}
	return fsstore.WithLock(ctx, s.lockPath(), func() error {
		return fsstore.Remove(path)
	})
}

// List implements Store.
func (s *FileStore) List(ctx context.Context) ([]*User, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list users: %w", err)
	}
	var users []*User
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		var u User
		ok, err := fsstore.ReadJSON(filepath.Join(s.root, e.Name()), &u)
		if err != nil {
			return nil, err
		}
		if ok {
			users = append(users, &u)
		}
	}
	return users, nil
}
