package document_test

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/peopleops/hr-platform/internal/document"
)

func TestDocument(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Document Suite")
}

type mockDocRepo struct {
	docs   map[int64]*document.Document
	nextID int64
}

func newMockDocRepo() *mockDocRepo {
	return &mockDocRepo{docs: make(map[int64]*document.Document), nextID: 1}
}

func (m *mockDocRepo) Create(doc *document.Document) error {
	doc.ID = m.nextID
	m.nextID++
	m.docs[doc.ID] = doc
	return nil
}

func (m *mockDocRepo) GetByID(id int64) (*document.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, document.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *mockDocRepo) ListForEmployee(employeeID int64) ([]*document.Document, error) {
	var out []*document.Document
	for _, d := range m.docs {
		if d.EmployeeID == employeeID {
			out = append(out, d)
		}
	}
	return out, nil
}

type memoryStorage struct {
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (s *memoryStorage) Save(path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[path] = data
	return nil
}

func (s *memoryStorage) Open(path string) (io.ReadCloser, error) {
	data, ok := s.objects[path]
	if !ok {
		return nil, document.ErrDocumentNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

var _ = Describe("AllowedContentType", func() {
	It("accepts any image subtype and PDF", func() {
		Expect(document.AllowedContentType("image/png")).To(BeTrue())
		Expect(document.AllowedContentType("image/heic")).To(BeTrue())
		Expect(document.AllowedContentType("application/pdf")).To(BeTrue())
	})

	It("rejects everything else", func() {
		Expect(document.AllowedContentType("text/html")).To(BeFalse())
		Expect(document.AllowedContentType("application/zip")).To(BeFalse())
	})
})

var _ = Describe("Document Service", func() {
	var (
		repo    *mockDocRepo
		storage *memoryStorage
		service *document.Service
	)

	BeforeEach(func() {
		repo = newMockDocRepo()
		storage = newMemoryStorage()
		service = document.NewService(repo, storage, slog.Default())
	})

	upload := func(name, contentType string, size int64) document.Upload {
		return document.Upload{
			EmployeeID:  7,
			UploadedBy:  3,
			FileName:    name,
			ContentType: contentType,
			SizeBytes:   size,
			Body:        strings.NewReader("file-bytes"),
		}
	}

	Describe("StoreReceipt", func() {
		It("stores under the employee's expenses prefix with a random name", func() {
			doc, err := service.StoreReceipt(upload("receipt.png", "image/png", 1024))

			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Kind).To(Equal(document.KindReceipt))
			Expect(doc.StoragePath).To(HavePrefix("employees/7/expenses/"))
			Expect(doc.StoragePath).To(HaveSuffix(".png"))
			Expect(storage.objects).To(HaveKey(doc.StoragePath))
		})

		It("rejects oversized files before touching storage", func() {
			_, err := service.StoreReceipt(upload("receipt.png", "image/png", document.MaxFileSize+1))

			Expect(err).To(MatchError(document.ErrFileTooLarge))
			Expect(storage.objects).To(BeEmpty())
		})

		It("rejects unsupported content types", func() {
			_, err := service.StoreReceipt(upload("receipt.zip", "application/zip", 1024))

			Expect(err).To(MatchError(document.ErrUnsupportedType))
		})
	})

	Describe("StoreMedicalCertificate", func() {
		It("stores under the certificates prefix keyed by employee", func() {
			doc, err := service.StoreMedicalCertificate(upload("note.pdf", "application/pdf", 2048))

			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Kind).To(Equal(document.KindMedicalCertificate))
			Expect(doc.StoragePath).To(HavePrefix("medical-certificates/7-"))
			Expect(doc.StoragePath).To(HaveSuffix(".pdf"))
		})
	})

	Describe("OpenContent", func() {
		It("round-trips the stored bytes", func() {
			doc, err := service.StoreReceipt(upload("receipt.png", "image/png", 1024))
			Expect(err).ToNot(HaveOccurred())

			got, rc, err := service.OpenContent(doc.ID)

			Expect(err).ToNot(HaveOccurred())
			defer rc.Close()
			data, _ := io.ReadAll(rc)
			Expect(string(data)).To(Equal("file-bytes"))
			Expect(got.ID).To(Equal(doc.ID))
		})

		It("fails for a missing document", func() {
			_, _, err := service.OpenContent(404)

			Expect(err).To(MatchError(document.ErrDocumentNotFound))
		})
	})
})
