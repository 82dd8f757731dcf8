package categories

import (
	"fmt"

	"github.com/GThiruAishwarya/kristaball/internal/repository"
	custom_error "github.com/GThiruAishwarya/kristaball/pkg/errors"
	"github.com/GThiruAishwarya/kristaball/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type CategoryRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *CategoryRepository {
	return &CategoryRepository{repository: r}
}

func (r *CategoryRepository) GetCategories() ([]models.AssetCategory, error) {
	categories := []models.AssetCategory{}
	query := r.repository.GoquDBWrapper.
		Select("category_id", "category_name").
		From("asset_categories").
		Order(goqu.I("category_name").Asc())
	if err := query.Executor().ScanStructs(&categories); err != nil {
		return nil, fmt.Errorf("unable to select categories: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepository) PersistCategory(category *models.AssetCategory) error {
	query := r.repository.GoquDBWrapper.Insert("asset_categories").
		Rows(goqu.Record{"category_name": category.Name}).
		Returning("category_id")

	if _, err := query.Executor().ScanVal(&category.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Category name already registered", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert category record: %w", err)
	}

	return nil
}

// CountAssetsInCategory guards deletion: a category with assets stays.
func (r *CategoryRepository) CountAssetsInCategory(categoryID int) (int, error) {
	query := r.repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From("assets").
		Where(goqu.Ex{"category_id": categoryID})

	var count int
	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("unable to count assets in category: %w", err)
	}

	return count, nil
}

func (r *CategoryRepository) RemoveCategory(categoryID int) error {
	count, err := r.CountAssetsInCategory(categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &custom_error.ValidationError{Message: fmt.Sprintf("category has %d related assets and cannot be removed", count)}
	}

	result, err := r.repository.GoquDBWrapper.
		Delete("asset_categories").
		Where(goqu.Ex{"category_id": categoryID}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Category is still referenced", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.NotFoundError{Resource: "category", ID: categoryID}
	}

	return nil
}
