package propostas

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"consignado-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PerPage is the fixed list page size.
const PerPage = 10

// Store persists proposals and their audit events. Every mutation runs in
// its own transaction so the row change and its event commit together.
// Reads never see soft-deleted rows (gorm.DeletedAt).
type Store struct {
	DB *gorm.DB
}

// Filters narrows List results. Search matches cliente_nome or cliente_cpf
// case-insensitively as a substring; Status is an exact match. Both combine
// with AND.
type Filters struct {
	Search string
	Status string
}

func (s *Store) Find(ctx context.Context, id uuid.UUID) (*domain.Proposta, error) {
	var p domain.Proposta
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) List(ctx context.Context, f Filters, page int) ([]domain.Proposta, int64, error) {
	if page < 1 {
		page = 1
	}
	q := s.DB.WithContext(ctx).Model(&domain.Proposta{})
	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(cliente_nome) LIKE ? OR cliente_cpf LIKE ?", term, term)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.Proposta
	if err := q.Order("created_at DESC").Limit(PerPage).Offset((page - 1) * PerPage).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// HasActiveCPF reports whether any non-deleted proposal holds cpf,
// excluding excludeID (pass uuid.Nil to exclude nothing).
func (s *Store) HasActiveCPF(ctx context.Context, cpf string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := s.DB.WithContext(ctx).Model(&domain.Proposta{}).Where("cliente_cpf = ?", cpf)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListEvents(ctx context.Context, propostaID uuid.UUID) ([]domain.PropostaEvent, error) {
	var events []domain.PropostaEvent
	if err := s.DB.WithContext(ctx).Where("proposta_id = ?", propostaID).Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) Create(ctx context.Context, p *domain.Proposta) error {
	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(p).Error; err != nil {
		tx.Rollback()
		return err
	}
	eventData, _ := json.Marshal(map[string]interface{}{
		"valor_solicitado": p.ValorSolicitado.StringFixed(2),
		"valor_parcela":    p.ValorParcela.StringFixed(2),
		"status":           p.Status,
	})
	if err := tx.Create(&domain.PropostaEvent{
		PropostaID: p.ID,
		EventType:  domain.EventCreated,
		EventData:  datatypes.JSON(eventData),
	}).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// Update applies the given column updates to a non-deleted proposal and
// records an UPDATED event. Returns the reloaded proposal.
func (s *Store) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*domain.Proposta, error) {
	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	var p domain.Proposta
	if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := tx.Model(&p).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	eventData, _ := json.Marshal(map[string]interface{}{"campos": updateKeys(updates)})
	if err := tx.Create(&domain.PropostaEvent{
		PropostaID: p.ID,
		EventType:  domain.EventUpdated,
		EventData:  datatypes.JSON(eventData),
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

// UpdateStatus sets a new status inside one transaction. guard runs with the
// current row before anything is written, sharing the transaction, so
// transition rules and conflict probes cannot race the write.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, novo string, guard func(tx *gorm.DB, atual *domain.Proposta) error) (*domain.Proposta, error) {
	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	var p domain.Proposta
	if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if guard != nil {
		if err := guard(tx, &p); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	anterior := p.Status
	p.Status = novo
	if err := tx.Save(&p).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	eventData, _ := json.Marshal(map[string]interface{}{"de": anterior, "para": novo})
	if err := tx.Create(&domain.PropostaEvent{
		PropostaID: p.ID,
		EventType:  domain.EventStatusChanged,
		EventData:  datatypes.JSON(eventData),
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete soft-deletes a proposal. A second delete of the same id fails with
// ErrNotFound because the first one hides the row.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	tx := s.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	var p domain.Proposta
	if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := tx.Delete(&p).Error; err != nil {
		tx.Rollback()
		return err
	}
	eventData, _ := json.Marshal(map[string]interface{}{"status": p.Status})
	if err := tx.Create(&domain.PropostaEvent{
		PropostaID: p.ID,
		EventType:  domain.EventDeleted,
		EventData:  datatypes.JSON(eventData),
	}).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func updateKeys(updates map[string]interface{}) []string {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	return keys
}
