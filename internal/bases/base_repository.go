package bases

import (
	"fmt"

	"github.com/GThiruAishwarya/kristaball/internal/repository"
	custom_error "github.com/GThiruAishwarya/kristaball/pkg/errors"
	"github.com/GThiruAishwarya/kristaball/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type BaseRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *BaseRepository {
	return &BaseRepository{repository: r}
}

func (r *BaseRepository) GetBases() ([]models.Base, error) {
	bases := []models.Base{}
	query := r.repository.GoquDBWrapper.
		Select("base_id", "base_name", "location", "commander_id").
		From("bases").
		Order(goqu.I("base_name").Asc())
	if err := query.Executor().ScanStructs(&bases); err != nil {
		return nil, fmt.Errorf("unable to select bases: %w", err)
	}

	return bases, nil
}

func (r *BaseRepository) GetBase(id int) (*models.Base, error) {
	var base models.Base
	query := r.repository.GoquDBWrapper.
		Select("base_id", "base_name", "location", "commander_id").
		From("bases").
		Where(goqu.Ex{"base_id": id})

	found, err := query.Executor().ScanStruct(&base)
	if err != nil {
		return nil, fmt.Errorf("unable to select base: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &base, nil
}

func (r *BaseRepository) PersistBase(base *models.Base) error {
	query := r.repository.GoquDBWrapper.Insert("bases").
		Rows(goqu.Record{
			"base_name":    base.Name,
			"location":     base.Location,
			"commander_id": base.CommanderID,
		}).
		Returning("base_id")

	if _, err := query.Executor().ScanVal(&base.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Base name already registered", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert base record: %w", err)
	}

	return nil
}

func (r *BaseRepository) UpdateBase(id int, req models.PatchBaseRequest) (*models.Base, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["base_name"] = *req.Name
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.CommanderID != nil {
		updates["commander_id"] = *req.CommanderID
	}
	if len(updates) == 0 {
		return nil, &custom_error.ValidationError{Message: "no fields to update"}
	}

	query := r.repository.GoquDBWrapper.
		Update("bases").
		Set(updates).
		Where(goqu.Ex{"base_id": id}).
		Returning("base_id", "base_name", "location", "commander_id")

	var base models.Base
	found, err := query.Executor().ScanStruct(&base)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("Base name already registered", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to update base: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "base", ID: id}
	}

	return &base, nil
}

func (r *BaseRepository) RemoveBase(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("bases").
		Where(goqu.Ex{"base_id": id}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Base is referenced by asset records", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete base: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.NotFoundError{Resource: "base", ID: id}
	}

	return nil
}
