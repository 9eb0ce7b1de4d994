package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridbin/service/internal/blob"
)

// fakeStore serves canned records in insertion order, mimicking the
// upload_date ordering the Postgres repository guarantees.
type fakeStore struct {
	recs []blob.Record
	err  error
}

func (f *fakeStore) List(context.Context) ([]blob.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]blob.Record(nil), f.recs...), nil
}

func (f *fakeStore) FindByFilename(_ context.Context, filename string) (*blob.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.recs {
		if f.recs[i].Filename == filename {
			cp := f.recs[i]
			return &cp, nil
		}
	}
	return nil, blob.ErrNotFound
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*blob.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.recs {
		if f.recs[i].ID == id {
			cp := f.recs[i]
			return &cp, nil
		}
	}
	return nil, blob.ErrNotFound
}

func someRecords() []blob.Record {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []blob.Record{
		{ID: "a1", Filename: "a1.png", ContentType: "image/png", UploadDate: base},
		{ID: "b2", Filename: "b2.txt", ContentType: "text/plain", UploadDate: base.Add(time.Minute)},
		{ID: "c3", Filename: "c3.jpg", ContentType: "image/jpeg", UploadDate: base.Add(2 * time.Minute)},
	}
}

func TestListAllKeepsOrderAndDerivesIsImage(t *testing.T) {
	svc := NewService(&fakeStore{recs: someRecords()})

	recs, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"a1", "b2", "c3"}, []string{recs[0].ID, recs[1].ID, recs[2].ID})
	assert.True(t, recs[0].IsImage)
	assert.False(t, recs[1].IsImage)
	assert.True(t, recs[2].IsImage)
}

func TestListAllEmptyCatalog(t *testing.T) {
	svc := NewService(&fakeStore{})

	recs, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFindByFilename(t *testing.T) {
	svc := NewService(&fakeStore{recs: someRecords()})

	rec, err := svc.FindByFilename(context.Background(), "c3.jpg")
	require.NoError(t, err)
	assert.Equal(t, "c3", rec.ID)
	assert.True(t, rec.IsImage)

	_, err = svc.FindByFilename(context.Background(), "nope.gif")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestFindByID(t *testing.T) {
	svc := NewService(&fakeStore{recs: someRecords()})

	rec, err := svc.FindByID(context.Background(), "b2")
	require.NoError(t, err)
	assert.Equal(t, "b2.txt", rec.Filename)
	assert.False(t, rec.IsImage)

	_, err = svc.FindByID(context.Background(), "zz")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestListAllPropagatesBackendError(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("connection refused")})

	_, err := svc.ListAll(context.Background())
	assert.Error(t, err)
}
