package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/atelier-app/atelier-api/models"
)

// MaterialRef identifies a material in an order or delivery payload: either
// an existing material id, or the attributes of a material to auto-create.
type MaterialRef struct {
	MaterialID  uint    `json:"material_id"`
	Name        string  `json:"material_name"`
	Type        string  `json:"type"`
	Unit        string  `json:"unit"`
	CostPerUnit float64 `json:"cost_per_unit"`
}

// MaterialCatalog owns material identity: lookups, auto-creation from
// delivery payloads and the duplicate-name / in-use rules.
type MaterialCatalog struct{}

// NewMaterialCatalog creates a new MaterialCatalog
func NewMaterialCatalog() *MaterialCatalog {
	return &MaterialCatalog{}
}

// GetOrCreate resolves a MaterialRef inside the caller's transaction.
// A ref with a material id must point at an existing material. A ref with
// only a name creates the material with zero on-hand quantity, unless the
// name collides case-insensitively with an existing one.
func (c *MaterialCatalog) GetOrCreate(tx *gorm.DB, ref MaterialRef) (*models.Material, error) {
	if ref.MaterialID != 0 {
		var material models.Material
		if err := tx.Where("id = ?", ref.MaterialID).Take(&material).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Resource: "material", ID: ref.MaterialID}
			}
			return nil, err
		}
		return &material, nil
	}

	name := strings.TrimSpace(ref.Name)
	if name == "" {
		return nil, errors.New("material reference needs an id or a name")
	}

	var count int64
	if err := tx.Model(&models.Material{}).
		Where("LOWER(material_name) = LOWER(?)", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &DuplicateMaterialError{Name: name}
	}

	material := models.Material{
		Name:        name,
		Type:        ref.Type,
		Unit:        ref.Unit,
		Quantity:    0,
		CostPerUnit: ref.CostPerUnit,
	}
	if err := tx.Create(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// NameExists reports whether a material with the given name already exists,
// compared case-insensitively.
func (c *MaterialCatalog) NameExists(tx *gorm.DB, name string) (bool, error) {
	var count int64
	err := tx.Model(&models.Material{}).
		Where("LOWER(material_name) = LOWER(?)", strings.TrimSpace(name)).
		Count(&count).Error
	return count > 0, err
}

// EnsureDeletable fails with MaterialInUseError while any delivery or order
// line still references the material.
func (c *MaterialCatalog) EnsureDeletable(tx *gorm.DB, materialID uint) error {
	var count int64
	if err := tx.Model(&models.DeliveryMaterial{}).
		Where("material_id = ?", materialID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &MaterialInUseError{MaterialID: materialID, UsedBy: "deliveries"}
	}

	if err := tx.Model(&models.OrderMaterial{}).
		Where("material_id = ?", materialID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &MaterialInUseError{MaterialID: materialID, UsedBy: "orders"}
	}
	return nil
}
