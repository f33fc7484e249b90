package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/importer"
	"github.com/yigit/egresados/internal/pkg/apperrors"
	"github.com/yigit/egresados/internal/pkg/filestorage"
)

type fakeGraduateRepo struct {
	records   map[int64]map[string]interface{}
	docs      map[int64][]models.GraduateDocument
	createErr error
	lastCols  map[string]interface{}
}

func newFakeGraduateRepo() *fakeGraduateRepo {
	return &fakeGraduateRepo{
		records: map[int64]map[string]interface{}{},
		docs:    map[int64][]models.GraduateDocument{},
	}
}

func (f *fakeGraduateRepo) GetAll(ctx context.Context) ([]models.GraduateRecord, error) {
	var out []models.GraduateRecord
	for id := range f.records {
		out = append(out, models.GraduateRecord{StudentID: id})
	}
	return out, nil
}

func (f *fakeGraduateRepo) GetByStudentID(ctx context.Context, studentID int64) (*models.GraduateRecord, error) {
	cols, ok := f.records[studentID]
	if !ok {
		return nil, apperrors.ErrGraduateNotFound
	}
	email, _ := cols["email"].(string)
	return &models.GraduateRecord{StudentID: studentID, Email: email, Documents: f.docs[studentID]}, nil
}

func (f *fakeGraduateRepo) UpdateByStudentID(ctx context.Context, studentID int64, columns map[string]interface{}) error {
	f.lastCols = columns
	existing, ok := f.records[studentID]
	if !ok {
		return apperrors.ErrGraduateNotFound
	}
	for k, v := range columns {
		existing[k] = v
	}
	return nil
}

func (f *fakeGraduateRepo) Create(ctx context.Context, studentID int64, columns map[string]interface{}, docs []models.GraduateDocument) (int64, error) {
	f.lastCols = columns
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.records[studentID] = columns
	f.docs[studentID] = docs
	return studentID, nil
}

func attachment(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("files", name)
	require.NoError(t, err)
	_, _ = part.Write([]byte("content"))
	require.NoError(t, w.Close())
	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["files"][0]
}

func newTestStorage(t *testing.T) *filestorage.LocalStorage {
	t.Helper()
	ls, err := filestorage.NewLocalStorage(t.TempDir(), "http://localhost/files")
	require.NoError(t, err)
	return ls
}

func TestGraduateService_UpdateRequiresExistingRecord(t *testing.T) {
	svc := NewGraduateService(newFakeGraduateRepo(), newTestStorage(t))

	_, err := svc.UpdateByStudent(context.Background(), 9, importer.Payload{"email": "a@b.cl"})
	assert.ErrorIs(t, err, apperrors.ErrGraduateNotFound)
}

func TestGraduateService_UpdateClearsStaleOther(t *testing.T) {
	repo := newFakeGraduateRepo()
	repo.records[1] = map[string]interface{}{"admission_channel": "Otro", "admission_channel_other": "Convenio"}
	svc := NewGraduateService(repo, newTestStorage(t))

	_, err := svc.UpdateByStudent(context.Background(), 1, importer.Payload{
		models.GraduateFieldAdmissionChannel:      "PAES/PSU",
		models.GraduateFieldAdmissionChannelOther: "Convenio",
		models.GraduateFieldGraduationYear:        2021.0,
	})
	require.NoError(t, err)

	assert.Equal(t, "PAES/PSU", repo.lastCols["admission_channel"])
	assert.Contains(t, repo.lastCols, "admission_channel_other")
	assert.Nil(t, repo.lastCols["admission_channel_other"])
	assert.Equal(t, 2021, repo.lastCols["graduation_year"])
}

func TestGraduateService_RejectsInvalidFields(t *testing.T) {
	repo := newFakeGraduateRepo()
	repo.records[1] = map[string]interface{}{}
	svc := NewGraduateService(repo, newTestStorage(t))

	_, err := svc.UpdateByStudent(context.Background(), 1, importer.Payload{"favouriteColour": "blue"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.UpdateByStudent(context.Background(), 1, importer.Payload{models.GraduateFieldEmploymentSector: "Minería"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.UpdateByStudent(context.Background(), 1, importer.Payload{models.GraduateFieldGraduationYear: "pronto"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGraduateService_CreateWithAttachments(t *testing.T) {
	repo := newFakeGraduateRepo()
	storage := newTestStorage(t)
	svc := NewGraduateService(repo, storage)

	record, err := svc.CreateWithAttachments(context.Background(), 4, importer.Payload{
		"mail": "ana@correo.cl",
	}, []*multipart.FileHeader{attachment(t, "certificado.pdf")})
	require.NoError(t, err)

	assert.Equal(t, "ana@correo.cl", record.Email)
	require.Len(t, record.Documents, 1)
	doc := record.Documents[0]
	assert.Equal(t, "certificado.pdf", doc.FileName)
	assert.Equal(t, "http://localhost/files/"+doc.FilePath, doc.FileURL)
	_, err = os.Stat(storage.GetFullPath(doc.FilePath))
	assert.NoError(t, err)
}

func TestGraduateService_CreateConflictRemovesFiles(t *testing.T) {
	repo := newFakeGraduateRepo()
	repo.createErr = apperrors.ErrGraduateAlreadyExists
	storage := newTestStorage(t)
	svc := NewGraduateService(repo, storage)

	_, err := svc.CreateWithAttachments(context.Background(), 4, importer.Payload{},
		[]*multipart.FileHeader{attachment(t, "a.pdf")})
	require.ErrorIs(t, err, apperrors.ErrGraduateAlreadyExists)

	entries, err := os.ReadDir(storage.GetFullPath("graduates/4"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
