package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Pdv-api/internal/application/dto"
	"github.com/jhoicas/Pdv-api/internal/domain"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

// ReceiptUseCase registra recibos de mercancía: acredita el ledger en la
// ubicación, crea las unidades serializadas entrantes y deja la entrada de
// auditoría, todo en una sola transacción.
type ReceiptUseCase struct {
	txRunner     TxRunner
	ledger       *Ledger
	registry     *SerialRegistry
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	txRunner TxRunner,
	ledger *Ledger,
	registry *SerialRegistry,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		registry:     registry,
		locationRepo: locationRepo,
		productRepo:  productRepo,
	}
}

// CreateReceipt valida y confirma el recibo. Para líneas con seriales, la
// cantidad de seriales debe coincidir exactamente con la cantidad de la línea.
func (uc *ReceiptUseCase) CreateReceipt(ctx context.Context, actor *entity.User, in dto.CreateReceiptRequest) (string, error) {
	if !entity.RoleHasPermission(actor.Role, entity.PermReceiptCreate) {
		return "", domain.ErrForbidden
	}
	if in.LocationID == "" || len(in.Items) == 0 {
		return "", domain.ErrInvalidInput
	}
	if !actor.HasLocationAccess(in.LocationID) {
		return "", domain.ErrForbidden
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil || loc == nil {
		return "", domain.ErrNotFound
	}
	for _, item := range in.Items {
		if item.VariationID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return "", domain.ErrInvalidInput
		}
		variation, err := uc.productRepo.GetVariationByID(item.VariationID)
		if err != nil || variation == nil {
			return "", domain.ErrNotFound
		}
		if len(item.Serials) > 0 && !decimal.NewFromInt(int64(len(item.Serials))).Equal(item.Quantity) {
			return "", &domain.SerialCountMismatchError{
				VariationID: item.VariationID,
				Expected:    int(item.Quantity.IntPart()),
				Got:         len(item.Serials),
			}
		}
	}

	now := time.Now()
	receiptID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		for _, item := range in.Items {
			if err := uc.ledger.CreditInTx(r, item.VariationID, in.LocationID, item.Quantity,
				entity.ReferenceTypePurchaseReceipt, receiptID, actor.ID, now); err != nil {
				return err
			}
			for _, serial := range item.Serials {
				unit := &entity.SerializedUnit{
					ID:                uuid.New().String(),
					VariationID:       item.VariationID,
					SerialNumber:      serial.SerialNumber,
					IMEI:              serial.IMEI,
					Condition:         serial.Condition,
					CurrentLocationID: in.LocationID,
				}
				if err := uc.registry.RegisterInTx(r, unit, receiptID, actor.ID, now); err != nil {
					return err
				}
			}
		}
		return r.Audit.Create(&entity.AuditLogEntry{
			UserID:      actor.ID,
			Username:    actor.Name,
			Action:      entity.AuditActionReceiptCreate,
			Description: fmt.Sprintf("Goods receipt at location %s (%d lines)", in.LocationID, len(in.Items)),
			EntityIDs:   []string{receiptID, in.LocationID},
			CreatedAt:   now,
		})
	})
	if err != nil {
		return "", err
	}
	return receiptID, nil
}
