package transfers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Pdv-api/internal/application/dto"
	"github.com/jhoicas/Pdv-api/internal/application/inventory"
	"github.com/jhoicas/Pdv-api/internal/domain"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
	"github.com/jhoicas/Pdv-api/internal/domain/repository"
)

// TransferUseCase coordina el workflow de traslados entre dos ubicaciones a
// través de actores independientes. Las transiciones siguen la tabla cerrada de
// entity; el stock sale del origen únicamente en send y aparece en destino
// únicamente en complete (con la cantidad recibida, no la enviada).
type TransferUseCase struct {
	txRunner     inventory.TxRunner
	ledger       *inventory.Ledger
	registry     *inventory.SerialRegistry
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	transferRepo repository.TransferRepository
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.Ledger,
	registry *inventory.SerialRegistry,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	transferRepo repository.TransferRepository,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		registry:     registry,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		transferRepo: transferRepo,
	}
}

// Create registra un traslado en draft. Sin efecto sobre el ledger.
func (uc *TransferUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateTransferRequest) (*entity.Transfer, error) {
	if !entity.RoleHasPermission(actor.Role, entity.PermTransferCreate) {
		return nil, domain.ErrForbidden
	}
	if in.FromLocationID == "" || in.ToLocationID == "" || in.FromLocationID == in.ToLocationID || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	from, err := uc.locationRepo.GetByID(in.FromLocationID)
	if err != nil || from == nil {
		return nil, domain.ErrNotFound
	}
	to, err := uc.locationRepo.GetByID(in.ToLocationID)
	if err != nil || to == nil {
		return nil, domain.ErrNotFound
	}
	for _, item := range in.Items {
		if item.VariationID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		variation, err := uc.productRepo.GetVariationByID(item.VariationID)
		if err != nil || variation == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	transferID := uuid.New().String()
	var transfer *entity.Transfer

	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		seq, err := r.Transfers.NextSeqForDay(now)
		if err != nil {
			return err
		}
		transfer = &entity.Transfer{
			ID:             transferID,
			TransferNumber: fmt.Sprintf("TRF-%s-%04d", now.Format("060102"), seq),
			FromLocationID: in.FromLocationID,
			ToLocationID:   in.ToLocationID,
			Status:         entity.TransferStatusDraft,
			Notes:          in.Notes,
			CreatedBy:      actor.ID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := r.Transfers.Create(transfer); err != nil {
			return err
		}
		for _, item := range in.Items {
			ti := &entity.TransferItem{
				ID:                uuid.New().String(),
				TransferID:        transferID,
				ProductID:         item.ProductID,
				VariationID:       item.VariationID,
				QuantitySent:      item.Quantity,
				SerializedUnitIDs: item.SerialNumberIDs,
			}
			if err := r.Transfers.CreateItem(ti); err != nil {
				return err
			}
			transfer.Items = append(transfer.Items, ti)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// transition carga la cabecera con bloqueo, valida la acción contra la tabla y
// ejecuta apply dentro de la misma transacción.
func (uc *TransferUseCase) transition(ctx context.Context, id, action string, apply func(r inventory.TxRepos, t *entity.Transfer, next string, now time.Time) error) (*entity.Transfer, error) {
	now := time.Now()
	var transfer *entity.Transfer
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		var err error
		transfer, err = r.Transfers.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		next, ok := entity.NextTransferStatus(transfer.Status, action)
		if !ok {
			return &domain.InvalidTransitionError{From: transfer.Status, Action: action}
		}
		return apply(r, transfer, next, now)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// SubmitForCheck pasa draft → pending_check. Sin efecto sobre el ledger.
func (uc *TransferUseCase) SubmitForCheck(ctx context.Context, actor *entity.User, id string) (*entity.Transfer, error) {
	if !entity.RoleHasPermission(actor.Role, entity.PermTransferCreate) {
		return nil, domain.ErrForbidden
	}
	return uc.transition(ctx, id, entity.TransferActionSubmitForCheck, func(r inventory.TxRepos, t *entity.Transfer, next string, now time.Time) error {
		t.Status = next
		t.UpdatedAt = now
		return r.Transfers.Update(t)
	})
}

// Approve pasa pending_check → checked. Separación de funciones: el revisor no
// puede ser quien creó el traslado.
func (uc *TransferUseCase) Approve(ctx context.Context, actor *entity.User, id string) (*entity.Transfer, error) {
	if !entity.RoleHasPermission(actor.Role, entity.PermTransferCheck) {
		return nil, domain.ErrForbidden
	}
	return uc.transition(ctx, id, entity.TransferActionCheckApprove, func(r inventory.TxRepos, t *entity.Transfer, next string, now time.Time) error {
		if t.CreatedBy == actor.ID {
			return &domain.InvalidTransitionError{
				From:   t.Status,
				Action: entity.TransferActionCheckApprove,
				Reason: "checker must be a different actor than the creator",
			}
		}
		t.Status = next
		t.CheckedBy = actor.ID
		checkedAt := now
		t.CheckedAt = &checkedAt
		t.UpdatedAt = now
		return r.Transfers.Update(t)
	})
}

// Reject regresa pending_check → draft con la razón (obligatoria) registrada.
// Misma separación de funciones que Approve.
func (uc *TransferUseCase) Reject(ctx context.Context, actor *entity.User, id, reason string) (*entity.Transfer, error) {
	if !entity.RoleHasPermission(actor.Role, entity.PermTransferCheck) {
		return nil, domain.ErrForbidden
	}
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.transition(ctx, id, entity.TransferActionCheckReject, func(r inventory.TxRepos, t *entity.Transfer, next string, now time.Time) error {
		if t.CreatedBy == actor.ID {
			return &domain.InvalidTransitionError{
				From:   t.Status,
				Action: entity.TransferActionCheckReject,
				Reason: "checker must be a different actor than the creator",
			}
		}
		t.Status = next
		t.CheckRemarks = reason
		t.CheckedBy = actor.ID
		checkedAt := now
		t.CheckedAt = &checkedAt
		t.UpdatedAt = now
		return r.Transfers.Update(t)
	})
}

// Send pasa checked → in_transit. Único punto donde el stock sale de la
// disponibilidad del origen: débito del ledger por cada ítem, unidades
// serializadas a in_transit y stockDeducted=true. El actor debe tener alcance
// sobre la ubicación ORIGEN.
func (uc *TransferUseCase) Send(ctx context.Context, actor *entity.User, id string) (*entity.Transfer, error) {
	if !entity.RoleHasPermission(actor.Role, entity.PermTransferSend) {
		return nil, domain.ErrForbidden
	}
	return uc.transition(ctx, id, entity.TransferActionSend, func(r inventory.TxRepos, t *entity.Transfer, next string, now time.Time) error {
		if !actor.HasLocationAccess(t.FromLocationID) {
			return domain.ErrForbidden
		}
		applied, err := uc.ledger.AlreadyApplied(r, entity.ReferenceTypeTransferSend, t.ID)
		if err != nil {
			return err
		}
		if applied {
			return domain.ErrConflict
		}
		for _, item := range t.Items {
			if err := uc.ledger.DebitInTx(r, item.VariationID, t.FromLocationID, item.QuantitySent,
				entity.ReferenceTypeTransferSend, t.ID, actor.ID, now); err != nil {
				return err
			}
			if len(item.SerializedUnitIDs) > 0 {
				if err := uc.registry.MarkInTransitInTx(r, item.SerializedUnitIDs, t.ID, t.FromLocationID, actor.ID, now); err != nil {
					return err
				}
			}
		}
		t.Status = next
		t.StockDeducted = true
		t.SentBy = actor.ID
		sentAt := now
		t.SentAt = &sentAt
		t.UpdatedAt = now
		if err := r.Transfers.Update(t); err != nil {
			return err
		}
		return r.Audit.Create(&entity.AuditLogEntry{
			UserID:      actor.ID,
			Username:    actor.Name,
			Action:      entity.AuditActionTransferSend,
			Description: fmt.Sprintf("Transfer %s sent from %s to %s", t.TransferNumber, t.FromLocationID, t.ToLocationID),
			EntityIDs:   []string{t.ID, t.FromLocationID, t.ToLocationID},
			CreatedAt:   now,
		})
	})
}

// MarkArrived pasa in_transit → arrived. La mercancía está presente físicamente
// pero aún no reconciliada: sin efecto sobre el ledger. El actor debe tener
// alcance sobre la ubicación destino.
func (uc *TransferUseCase) MarkArrived(ctx context.Context, actor *entity.User, id string) (*entity.Transfer, error) {
	if !entity.RoleHasPermission(actor.Role, entity.PermTransferReceive) {
		return nil, domain.ErrForbidden
	}
	return uc.transition(ctx, id, entity.TransferActionMarkArrived, func(r inventory.TxRepos, t *entity.Transfer, next string, now time.Time) error {
		if !actor.HasLocationAccess(t.ToLocationID) {
			return domain.ErrForbidden
		}
		t.Status = next
		t.ArrivedBy = actor.ID
		arrivedAt := now
		t.ArrivedAt = &arrivedAt
		t.UpdatedAt = now
		return r.Transfers.Update(t)
	})
}

// StartVerification pasa arrived → verifying.
func (uc *TransferUseCase) StartVerification(ctx context.Context, actor *entity.User, id string) (*entity.Transfer, error) {
	if !entity.RoleHasPermission(actor.Role, entity.PermTransferVerify) {
		return nil, domain.ErrForbidden
	}
	return uc.transition(ctx, id, entity.TransferActionStartVerification, func(r inventory.TxRepos, t *entity.Transfer, next string, now time.Time) error {
		t.Status = next
		t.UpdatedAt = now
		return r.Transfers.Update(t)
	})
}

// VerifyItem registra la cantidad recibida de un ítem (estado verifying). La
// varianza recibido-enviado se expone sin ser fatal; al verificar el último
// ítem el traslado pasa automáticamente a verified.
func (uc *TransferUseCase) VerifyItem(ctx context.Context, actor *entity.User, id string, in dto.VerifyItemRequest) (*entity.Transfer, error) {
	if !entity.RoleHasPermission(actor.Role, entity.PermTransferVerify) {
		return nil, domain.ErrForbidden
	}
	if in.ItemID == "" || in.ReceivedQuantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var transfer *entity.Transfer
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		var err error
		transfer, err = r.Transfers.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if transfer.Status != entity.TransferStatusVerifying {
			return &domain.InvalidTransitionError{From: transfer.Status, Action: "verify_item"}
		}
		var item *entity.TransferItem
		for _, it := range transfer.Items {
			if it.ID == in.ItemID {
				item = it
				break
			}
		}
		if item == nil {
			return domain.ErrNotFound
		}
		item.QuantityReceived = in.ReceivedQuantity
		item.Verified = true
		item.VerifiedBy = actor.ID
		verifiedAt := now
		item.VerifiedAt = &verifiedAt
		if err := r.Transfers.UpdateItem(item); err != nil {
			return err
		}
		if transfer.AllItemsVerified() {
			next, ok := entity.NextTransferStatus(transfer.Status, entity.TransferActionFinishVerification)
			if !ok {
				return &domain.InvalidTransitionError{From: transfer.Status, Action: entity.TransferActionFinishVerification}
			}
			transfer.Status = next
			transfer.VerifiedBy = actor.ID
			transfer.VerifiedAt = &verifiedAt
		}
		transfer.UpdatedAt = now
		return r.Transfers.Update(transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Complete pasa verified → completed. Único punto donde el stock aparece en el
// destino: crédito del ledger por cada ítem con la cantidad RECIBIDA (no la
// enviada) y unidades serializadas a in_stock en destino.
func (uc *TransferUseCase) Complete(ctx context.Context, actor *entity.User, id string) (*entity.Transfer, error) {
	if !entity.RoleHasPermission(actor.Role, entity.PermTransferComplete) {
		return nil, domain.ErrForbidden
	}
	return uc.transition(ctx, id, entity.TransferActionComplete, func(r inventory.TxRepos, t *entity.Transfer, next string, now time.Time) error {
		applied, err := uc.ledger.AlreadyApplied(r, entity.ReferenceTypeTransferReceive, t.ID)
		if err != nil {
			return err
		}
		if applied {
			return domain.ErrConflict
		}
		for _, item := range t.Items {
			if item.QuantityReceived.GreaterThan(decimal.Zero) {
				if err := uc.ledger.CreditInTx(r, item.VariationID, t.ToLocationID, item.QuantityReceived,
					entity.ReferenceTypeTransferReceive, t.ID, actor.ID, now); err != nil {
					return err
				}
			}
			if len(item.SerializedUnitIDs) > 0 {
				if err := uc.registry.ReceiveTransferInTx(r, item.SerializedUnitIDs, t.ID, t.ToLocationID,
					entity.ReferenceTypeTransferReceive, actor.ID, now); err != nil {
					return err
				}
			}
		}
		t.Status = next
		t.CompletedBy = actor.ID
		completedAt := now
		t.CompletedAt = &completedAt
		t.UpdatedAt = now
		if err := r.Transfers.Update(t); err != nil {
			return err
		}
		return r.Audit.Create(&entity.AuditLogEntry{
			UserID:      actor.ID,
			Username:    actor.Name,
			Action:      entity.AuditActionTransferComplete,
			Description: fmt.Sprintf("Transfer %s completed at %s", t.TransferNumber, t.ToLocationID),
			EntityIDs:   []string{t.ID, t.ToLocationID},
			CreatedAt:   now,
		})
	})
}

// Cancel anula el traslado desde los cuatro estados previos a la llegada.
// Antes de send no hay efecto sobre el ledger; desde in_transit el stock ya
// salió, así que se acredita de vuelta en el origen y las unidades regresan a
// in_stock (la conservación nunca se rompe).
func (uc *TransferUseCase) Cancel(ctx context.Context, actor *entity.User, id string) (*entity.Transfer, error) {
	if !entity.RoleHasPermission(actor.Role, entity.PermTransferCreate) {
		return nil, domain.ErrForbidden
	}
	now := time.Now()
	var transfer *entity.Transfer
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		var err error
		transfer, err = r.Transfers.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if !entity.TransferCancellable(transfer.Status) {
			return domain.ErrTransferNotCancellable
		}
		if transfer.StockDeducted {
			applied, err := uc.ledger.AlreadyApplied(r, entity.ReferenceTypeTransferCancel, transfer.ID)
			if err != nil {
				return err
			}
			if applied {
				return domain.ErrConflict
			}
			for _, item := range transfer.Items {
				if err := uc.ledger.CreditInTx(r, item.VariationID, transfer.FromLocationID, item.QuantitySent,
					entity.ReferenceTypeTransferCancel, transfer.ID, actor.ID, now); err != nil {
					return err
				}
				if len(item.SerializedUnitIDs) > 0 {
					if err := uc.registry.ReceiveTransferInTx(r, item.SerializedUnitIDs, transfer.ID, transfer.FromLocationID,
						entity.ReferenceTypeTransferCancel, actor.ID, now); err != nil {
						return err
					}
				}
			}
			transfer.StockDeducted = false
		}
		transfer.Status = entity.TransferStatusCancelled
		transfer.CancelledBy = actor.ID
		cancelledAt := now
		transfer.CancelledAt = &cancelledAt
		transfer.UpdatedAt = now
		if err := r.Transfers.Update(transfer); err != nil {
			return err
		}
		return r.Audit.Create(&entity.AuditLogEntry{
			UserID:      actor.ID,
			Username:    actor.Name,
			Action:      entity.AuditActionTransferCancel,
			Description: fmt.Sprintf("Transfer %s cancelled", transfer.TransferNumber),
			EntityIDs:   []string{transfer.ID},
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// GetByID devuelve el traslado con sus ítems.
func (uc *TransferUseCase) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	transfer, err := uc.transferRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	return transfer, nil
}
