package services

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/utils"
)

func sp(s string) *string { return &s }
func ip(v int64) *int64   { return &v }

type fakePositions struct {
	rows    map[int64]models.Position
	listErr error
	getErr  error
	nextID  int64
}

func newFakePositions(ps ...models.Position) *fakePositions {
	f := &fakePositions{rows: map[int64]models.Position{}, nextID: 100}
	for _, p := range ps {
		f.rows[p.ID] = p
	}
	return f
}

func (f *fakePositions) sorted() []models.Position {
	out := make([]models.Position, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakePositions) List(_ context.Context, _ string, _, _ int) ([]models.Position, error) {
	return f.sorted(), f.listErr
}

func (f *fakePositions) ListAll(context.Context) ([]models.Position, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(), nil
}

func (f *fakePositions) GetByID(_ context.Context, id int64) (*models.Position, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &p, nil
}

func (f *fakePositions) Insert(_ context.Context, p *models.Position) error {
	f.nextID++
	p.ID = f.nextID
	f.rows[p.ID] = *p
	return nil
}

func (f *fakePositions) Update(_ context.Context, p *models.Position) error {
	if _, ok := f.rows[p.ID]; !ok {
		return utils.ErrNotFound
	}
	f.rows[p.ID] = *p
	return nil
}

func (f *fakePositions) Delete(_ context.Context, id int64) (*models.Position, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	delete(f.rows, id)
	return &p, nil
}

type fakeResumes struct {
	rows    map[int64]models.Resume
	listErr error
	getErr  error
	setErr  error
	scanned int
}

func newFakeResumes(rs ...models.Resume) *fakeResumes {
	f := &fakeResumes{rows: map[int64]models.Resume{}}
	for _, r := range rs {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeResumes) sorted() []models.Resume {
	out := make([]models.Resume, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeResumes) List(_ context.Context, limit, offset int) ([]models.Resume, error) {
	return Page(f.sorted(), limit, offset), f.listErr
}

func (f *fakeResumes) ListRecent(_ context.Context, n int) ([]models.Resume, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.scanned = n
	return Page(f.sorted(), n, 0), nil
}

func (f *fakeResumes) ListAll(context.Context) ([]models.Resume, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(), nil
}

func (f *fakeResumes) GetByID(_ context.Context, id int64) (*models.Resume, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &r, nil
}

func (f *fakeResumes) SetFileID(_ context.Context, id, fileID int64) error {
	if f.setErr != nil {
		return f.setErr
	}
	r, ok := f.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	r.ResumeFileID = &fileID
	f.rows[id] = r
	return nil
}

func (f *fakeResumes) Delete(_ context.Context, id int64) (*models.Resume, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	delete(f.rows, id)
	return &r, nil
}

type fakeFiles struct {
	rows      map[int64]models.ResumeFile
	deleteErr error
	lookupErr error
	lookups   [][]int64
	nextID    int64
}

func newFakeFiles(fs ...models.ResumeFile) *fakeFiles {
	f := &fakeFiles{rows: map[int64]models.ResumeFile{}, nextID: 500}
	for _, x := range fs {
		f.rows[x.ID] = x
	}
	return f
}

func (f *fakeFiles) Insert(_ context.Context, x *models.ResumeFile) error {
	f.nextID++
	x.ID = f.nextID
	f.rows[x.ID] = *x
	return nil
}

func (f *fakeFiles) GetByID(_ context.Context, id int64) (*models.ResumeFile, error) {
	x, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &x, nil
}

func (f *fakeFiles) UpdateAttachment(_ context.Context, id int64, fileName, filePath, uploadedBy string) (*models.ResumeFile, error) {
	x, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	x.FileName, x.FilePath, x.UploadedBy, x.Status = fileName, filePath, uploadedBy, models.FileStatusUploaded
	f.rows[id] = x
	return &x, nil
}

func (f *fakeFiles) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.rows[id]; !ok {
		return utils.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeFiles) UploadersByIDs(_ context.Context, ids []int64) (map[int64]string, error) {
	f.lookups = append(f.lookups, ids)
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	out := map[int64]string{}
	for _, id := range ids {
		if x, ok := f.rows[id]; ok {
			out[id] = x.UploadedBy
		}
	}
	return out, nil
}

type fakeBlobs struct {
	objects map[string]string
	err     error
}

func (b *fakeBlobs) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if b.objects == nil {
		b.objects = map[string]string{}
	}
	b.objects[objectName] = string(data)
	return b.PublicURL(objectName), nil
}

func (b *fakeBlobs) PublicURL(objectName string) string {
	return "https://files.test/" + objectName
}

func (b *fakeBlobs) PresignPut(_ context.Context, objectName, _ string, ttl time.Duration) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return "https://files.test/" + objectName + "?signed=1&ttl=" + ttl.String(), nil
}

type fakeUsers struct {
	rows   map[int64]models.AppUser
	nextID int64
}

func newFakeUsers(us ...models.AppUser) *fakeUsers {
	f := &fakeUsers{rows: map[int64]models.AppUser{}, nextID: 10}
	for _, u := range us {
		f.rows[u.ID] = u
	}
	return f
}

func (f *fakeUsers) List(context.Context) ([]models.AppUser, error) {
	out := make([]models.AppUser, 0, len(f.rows))
	for _, u := range f.rows {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.AppUser, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) GetByAccount(_ context.Context, account string) (*models.AppUser, error) {
	for _, u := range f.rows {
		if u.Account == account {
			return &u, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeUsers) Insert(_ context.Context, u *models.AppUser) error {
	for _, x := range f.rows {
		if x.Account == u.Account {
			return utils.ErrConflict
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.rows[u.ID] = *u
	return nil
}

func (f *fakeUsers) Update(_ context.Context, id int64, fields map[string]any) (*models.AppUser, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "account":
			u.Account = v.(string)
		case "full_name":
			u.FullName = v.(string)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "is_admin":
			u.IsAdmin = v.(bool)
		case "is_active":
			u.IsActive = v.(bool)
		case "updated_at":
			u.UpdatedAt = v.(time.Time)
		}
	}
	f.rows[id] = u
	return &u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return utils.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeSessions struct {
	rows       map[string]models.LoginSession
	endedUsers []int64
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{rows: map[string]models.LoginSession{}}
}

func (f *fakeSessions) Create(_ context.Context, s *models.LoginSession) error {
	f.rows[s.SessionID] = *s
	return nil
}

func (f *fakeSessions) GetBySessionID(_ context.Context, id string) (*models.LoginSession, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSessions) End(_ context.Context, id string, at time.Time) error {
	s, ok := f.rows[id]
	if !ok || s.EndedAt != nil {
		return utils.ErrNotFound
	}
	s.EndedAt = &at
	f.rows[id] = s
	return nil
}

func (f *fakeSessions) EndAllForUser(_ context.Context, userID int64, at time.Time) error {
	f.endedUsers = append(f.endedUsers, userID)
	for id, s := range f.rows {
		if s.UserID == userID && s.EndedAt == nil {
			s.EndedAt = &at
			f.rows[id] = s
		}
	}
	return nil
}

func (b *fakeBlobs) SignedGetURL(_ context.Context, objectName string, ttl time.Duration) (string, error) {
	return "https://signed.test/" + objectName + "?ttl=" + ttl.String(), nil
}
