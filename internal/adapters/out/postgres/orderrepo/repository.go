package orderrepo

import (
	"context"
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// MaxPageSize bounds a single Query page.
const MaxPageSize = 100

const uniqueViolation = "23505"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts a new order. A second order with the same (tenant_id, order_id)
// fails with ObjectAlreadyExistsError.
func (r *GormOrderRepository) Create(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.NewObjectAlreadyExistsErrorWithCause("order", aggregate.ID().String(), err)
		}
		return err
	}

	return nil
}

// Get retrieves an order by tenant and id.
func (r *GormOrderRepository) Get(ctx context.Context, tenantID string, orderID kernel.UUID) (*order.Order, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		First(&dto, "tenant_id = ? AND order_id = ?", tenantID, orderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateTransition writes status, assignment, history and keys in one statement
// guarded by the expected status. Losing the race to a concurrent writer yields
// ConflictError naming the status found in the row.
func (r *GormOrderRepository) UpdateTransition(
	ctx context.Context,
	tenantID string,
	orderID kernel.UUID,
	tr order.Transition,
) (*order.Order, error) {
	if err := tr.Validate(); err != nil {
		return nil, err
	}

	current, err := r.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err = current.ApplyTransition(tr); err != nil {
		return nil, err
	}

	dto := fromDomain(current)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("tenant_id = ? AND order_id = ? AND status = ?", tenantID, orderID.Bytes(), tr.From().String()).
		Updates(map[string]any{
			"status":         dto.Status,
			"status_key":     dto.StatusKey,
			"history":        dto.History,
			"cook_id":        dto.CookID,
			"cook":           dto.Cook,
			"cook_key":       dto.CookKey,
			"dispatcher_id":  dto.DispatcherID,
			"dispatcher":     dto.Dispatcher,
			"dispatcher_key": dto.DispatcherKey,
			"driver_id":      dto.DriverID,
			"driver":         dto.Driver,
			"driver_key":     dto.DriverKey,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		latest, getErr := r.Get(ctx, tenantID, orderID)
		if getErr != nil {
			return nil, getErr
		}
		return nil, errs.NewConflictError("status", tr.From(), latest.Status())
	}

	return current, nil
}

// Query returns one ascending page along the selected access path.
func (r *GormOrderRepository) Query(
	ctx context.Context,
	tenantID string,
	selector ports.OrderSelector,
	pageSize int,
	cursor string,
) (ports.OrderPage, error) {
	if pageSize < 1 || pageSize > MaxPageSize {
		return ports.OrderPage{}, errs.NewValueIsOutOfRangeError("page_size", pageSize, 1, MaxPageSize)
	}

	column, prefix, err := accessPath(selector)
	if err != nil {
		return ports.OrderPage{}, err
	}

	q := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("tenant_id = ?", tenantID)
	if prefix != "" {
		q = q.Where(column+" LIKE ? ESCAPE '\\'", likePrefix(prefix))
	} else {
		q = q.Where(column + " IS NOT NULL")
	}
	if selector.Kind != ports.ByStatus && selector.StatusPrefix != "" {
		q = q.Where("status_key LIKE ? ESCAPE '\\'", likePrefix(selector.StatusPrefix))
	}

	if cursor != "" {
		after, decodeErr := decodeCursor(cursor)
		if decodeErr != nil {
			return ports.OrderPage{}, decodeErr
		}
		q = q.Where("("+column+" > ? OR ("+column+" = ? AND order_id > ?))", after.Key, after.Key, after.OrderID)
	}

	var dtos []OrderDTO
	if err = q.Order(column + " ASC").Order("order_id ASC").Limit(pageSize + 1).Find(&dtos).Error; err != nil {
		return ports.OrderPage{}, err
	}

	page := ports.OrderPage{Orders: make([]*order.Order, 0, min(len(dtos), pageSize))}
	for i, dto := range dtos {
		if i == pageSize {
			break
		}
		o, convErr := toDomain(dto)
		if convErr != nil {
			return ports.OrderPage{}, convErr
		}
		page.Orders = append(page.Orders, o)
	}

	if len(dtos) > pageSize {
		last := dtos[pageSize-1]
		page.Cursor, err = encodeCursor(pageCursor{Key: keyOf(last, column), OrderID: last.OrderID})
		if err != nil {
			return ports.OrderPage{}, err
		}
	}

	return page, nil
}

// ScanAll streams the tenant's orders row by row into fn.
func (r *GormOrderRepository) ScanAll(ctx context.Context, tenantID string, fn func(*order.Order) error) error {
	db := r.db.WithContext(ctx)
	rows, err := db.Model(&OrderDTO{}).Where("tenant_id = ?", tenantID).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var dto OrderDTO
		if err = db.ScanRows(rows, &dto); err != nil {
			return err
		}
		o, convErr := toDomain(dto)
		if convErr != nil {
			return convErr
		}
		if err = fn(o); err != nil {
			return err
		}
	}

	return rows.Err()
}

// SetExecutionHandle records the workflow execution handle of an order.
func (r *GormOrderRepository) SetExecutionHandle(ctx context.Context, tenantID string, orderID kernel.UUID, handle string) error {
	if handle == "" {
		return errs.NewValueIsRequiredError("execution handle")
	}
	return r.setColumn(ctx, tenantID, orderID, "execution_handle", handle)
}

// SetResumeToken stores or overwrites the resume token of an order.
func (r *GormOrderRepository) SetResumeToken(ctx context.Context, tenantID string, orderID kernel.UUID, token string) error {
	if token == "" {
		return errs.NewValueIsRequiredError("resume token")
	}
	return r.setColumn(ctx, tenantID, orderID, "resume_token", token)
}

func (r *GormOrderRepository) setColumn(ctx context.Context, tenantID string, orderID kernel.UUID, column, value string) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID.Bytes()).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", orderID.String())
	}
	return nil
}

func accessPath(s ports.OrderSelector) (column string, prefix string, err error) {
	switch s.Kind {
	case ports.ByCreatedAt:
		return "created_key", "", nil
	case ports.ByStatus:
		if s.StatusPrefix == "" {
			return "", "", errs.NewValueIsRequiredError("status")
		}
		return "status_key", order.SortKeyPrefix(s.StatusPrefix), nil
	case ports.ByClient, ports.ByCook, ports.ByDispatcher, ports.ByDriver:
		if s.ActorID == "" {
			return "", "", errs.NewValueIsRequiredError(s.Kind.String() + "_id")
		}
		return s.Kind.String() + "_key", order.SortKeyPrefix(s.ActorID), nil
	default:
		return "", "", errs.NewValueIsInvalidError("selector")
	}
}

func keyOf(dto OrderDTO, column string) string {
	switch column {
	case "client_key":
		return dto.ClientKey
	case "status_key":
		return dto.StatusKey
	case "cook_key":
		return derefString(dto.CookKey)
	case "dispatcher_key":
		return derefString(dto.DispatcherKey)
	case "driver_key":
		return derefString(dto.DriverKey)
	default:
		return dto.CreatedKey
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
