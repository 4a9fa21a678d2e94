package service

import (
	"context"
	"errors"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/repository"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTableNotFound = apperror.NotFound("Table not found")
	ErrTableExists   = apperror.Conflict(apperror.CodeUniqueViolation, "Table number already exists")
	ErrGuestsOverCap = apperror.Business("Current guests cannot exceed table capacity")
)

type CreateTableInput struct {
	Number        int                  `json:"number" validate:"required,gte=1"`
	Capacity      int                  `json:"capacity" validate:"required,gte=1,lte=50"`
	Status        models.TableStatus   `json:"status" validate:"omitempty,oneof=AVAILABLE OCCUPIED RESERVED MAINTENANCE"`
	Location      models.TableLocation `json:"location" validate:"omitempty,oneof=INDOOR OUTDOOR"`
	CurrentGuests int                  `json:"currentGuests" validate:"gte=0"`
	ReservedBy    *string              `json:"reservedBy" validate:"omitempty,max=100"`
	ReservedTime  *string              `json:"reservedTime" validate:"omitempty,max=50"`
}

func (in *CreateTableInput) Normalize() {
	trimPtr(in.ReservedBy)
	trimPtr(in.ReservedTime)
}

func (in *CreateTableInput) ApplyDefaults() {
	if in.Status == "" {
		in.Status = models.TableAvailable
	}
	if in.Location == "" {
		in.Location = models.LocationIndoor
	}
}

func (in *CreateTableInput) CheckFields() []string {
	if in.Capacity > 0 && in.CurrentGuests > in.Capacity {
		return []string{"currentGuests cannot exceed capacity"}
	}
	return nil
}

type UpdateTableInput struct {
	Number        *int                  `json:"number" validate:"omitempty,gte=1"`
	Capacity      *int                  `json:"capacity" validate:"omitempty,gte=1,lte=50"`
	Status        *models.TableStatus   `json:"status" validate:"omitempty,oneof=AVAILABLE OCCUPIED RESERVED MAINTENANCE"`
	Location      *models.TableLocation `json:"location" validate:"omitempty,oneof=INDOOR OUTDOOR"`
	CurrentGuests *int                  `json:"currentGuests" validate:"omitempty,gte=0"`
	ReservedBy    *string               `json:"reservedBy" validate:"omitempty,max=100"`
	ReservedTime  *string               `json:"reservedTime" validate:"omitempty,max=50"`
}

func (in *UpdateTableInput) Normalize() {
	trimPtr(in.ReservedBy)
	trimPtr(in.ReservedTime)
}

func (in *UpdateTableInput) CheckFields() []string {
	if in.Number == nil && in.Capacity == nil && in.Status == nil && in.Location == nil &&
		in.CurrentGuests == nil && in.ReservedBy == nil && in.ReservedTime == nil {
		return []string{"at least one field must be provided"}
	}
	return nil
}

type TableService struct {
	repo *repository.TableRepository
}

func NewTableService(repo *repository.TableRepository) *TableService {
	return &TableService{repo: repo}
}

func (s *TableService) Create(ctx context.Context, in CreateTableInput) (*models.Table, error) {
	existing, err := s.repo.GetByNumber(ctx, in.Number)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, ErrTableExists
	}

	table := &models.Table{
		Number:        in.Number,
		Capacity:      in.Capacity,
		Status:        in.Status,
		Location:      in.Location,
		CurrentGuests: in.CurrentGuests,
		ReservedBy:    in.ReservedBy,
		ReservedTime:  in.ReservedTime,
	}
	if err := s.repo.Create(ctx, table); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTableExists
		}
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("Table created",
		zap.String("table_id", table.ID.String()),
		zap.Int("number", table.Number),
	)
	return table, nil
}

func (s *TableService) List(ctx context.Context) ([]*models.Table, error) {
	tables, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return tables, nil
}

func (s *TableService) Get(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	table, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if table == nil {
		return nil, ErrTableNotFound
	}
	return table, nil
}

// Update checks guests against the capacity that will hold after the
// update, whichever of the two changes.
func (s *TableService) Update(ctx context.Context, id uuid.UUID, in UpdateTableInput) (*models.Table, error) {
	table, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Number != nil && *in.Number != table.Number {
		other, err := s.repo.GetByNumber(ctx, *in.Number)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if other != nil {
			return nil, ErrTableExists
		}
	}

	capacity, guests := table.Capacity, table.CurrentGuests
	if in.Capacity != nil {
		capacity = *in.Capacity
	}
	if in.CurrentGuests != nil {
		guests = *in.CurrentGuests
	}
	if guests > capacity {
		return nil, ErrGuestsOverCap
	}

	fields := map[string]any{}
	setIf(fields, "number", in.Number)
	setIf(fields, "capacity", in.Capacity)
	setIf(fields, "status", in.Status)
	setIf(fields, "location", in.Location)
	setIf(fields, "current_guests", in.CurrentGuests)
	setIf(fields, "reserved_by", in.ReservedBy)
	setIf(fields, "reserved_time", in.ReservedTime)

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTableExists
		}
		return nil, apperror.Internal(err)
	}
	return s.Get(ctx, id)
}

func (s *TableService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Internal(err)
	}
	logger.Log.Info("Table deleted", zap.String("table_id", id.String()))
	return nil
}
