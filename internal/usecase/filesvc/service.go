package filesvc

import (
	"context"
	"io"

	"github.com/sir_venger/upload_lite/internal/models"
)

type (
	// Storage — хранилище содержимого файлов (локальный каталог или S3).
	Storage interface {
		Store(ctx context.Context, name string, r io.Reader) (models.StoredFile, error)
		LoadAll(ctx context.Context) ([]string, error)
		Load(ctx context.Context, name string) (*models.Resource, error)
		Root() string
	}

	// Journal — журнал завершённых загрузок.
	Journal interface {
		Save(ctx context.Context, file models.StoredFile) error
		List(ctx context.Context) ([]models.StoredFile, error)
	}

	// Service объединяет операции по загрузке, перечислению и выдаче файлов.
	Service interface {
		Upload(ctx context.Context, name string, r io.Reader) (models.StoredFile, error)
		List(ctx context.Context) ([]string, error)
		Open(ctx context.Context, name string) (*models.Resource, error)
		Uploads(ctx context.Context) ([]models.StoredFile, error)
		Usage(ctx context.Context) (int64, error)
		Root() string
	}
)

// usageReporter реализуют хранилища, умеющие считать занятый объём.
type usageReporter interface {
	Usage(ctx context.Context) (int64, error)
}

type Deps struct {
	Storage Storage
	Journal Journal
}

type Files struct {
	Deps
}

// New конструирует сервис файлов с заданными зависимостями.
func New(deps Deps) *Files {
	return &Files{Deps: deps}
}

var _ Service = (*Files)(nil)

// List возвращает имена файлов в порядке, в котором их перечисляет хранилище.
func (s *Files) List(ctx context.Context) ([]string, error) {
	return s.Storage.LoadAll(ctx)
}

// Open открывает файл на чтение; для отсутствующего файла models.ErrNotFound.
func (s *Files) Open(ctx context.Context, name string) (*models.Resource, error) {
	return s.Storage.Load(ctx, name)
}

// Uploads возвращает журнал загрузок.
func (s *Files) Uploads(ctx context.Context) ([]models.StoredFile, error) {
	if s.Journal == nil {
		return nil, nil
	}
	return s.Journal.List(ctx)
}

// Usage возвращает занятый объём, если хранилище умеет его считать, иначе 0.
func (s *Files) Usage(ctx context.Context) (int64, error) {
	if u, ok := s.Storage.(usageReporter); ok {
		return u.Usage(ctx)
	}
	return 0, nil
}

// Root возвращает корень хранилища для внешнего скрипта.
func (s *Files) Root() string {
	return s.Storage.Root()
}
