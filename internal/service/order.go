package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"

	"github.com/qnrlabs/order_service/internal/authz"
	"github.com/qnrlabs/order_service/internal/logging"
	"github.com/qnrlabs/order_service/internal/models"
	"github.com/qnrlabs/order_service/internal/repo"
	"github.com/qnrlabs/order_service/internal/service/search"
	"github.com/qnrlabs/order_service/internal/transport"
	"github.com/qnrlabs/order_service/internal/util"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
)

// OrderService owns order CRUD. Every operation that targets a specific
// order goes through the ownership-or-admin guard; denied callers get the
// same "not found" as a missing id. ES is optional and best-effort.
type OrderService struct {
	Repo    *repo.GormRepo
	ES      *elasticsearch.Client
	ESIndex string
}

func (svc *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest, caller *models.User) (*models.Order, error) {
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description required", ErrValidation)
	}
	if req.Status == "" {
		return nil, fmt.Errorf("%w: status required", ErrValidation)
	}

	order := &models.Order{
		Description: req.Description,
		Status:      req.Status,
		UserID:      caller.ID,
	}

	order, err := svc.Repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	order.User = *caller

	svc.indexOrder(ctx, order)
	return order, nil
}

func (svc *OrderService) GetOrder(ctx context.Context, id uint, caller *models.User) (*models.Order, error) {
	return svc.loadGuarded(ctx, id, caller)
}

func (svc *OrderService) UpdateOrder(ctx context.Context, id uint, req transport.UpdateOrderRequest, caller *models.User) (*models.Order, error) {
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description required", ErrValidation)
	}
	if req.Status == "" {
		return nil, fmt.Errorf("%w: status required", ErrValidation)
	}

	order, err := svc.loadGuarded(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	order.Description = req.Description
	order.Status = req.Status

	if err := svc.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}

	svc.indexOrder(ctx, order)
	return order, nil
}

func (svc *OrderService) DeleteOrder(ctx context.Context, id uint, caller *models.User) error {
	order, err := svc.loadGuarded(ctx, id, caller)
	if err != nil {
		return err
	}

	if err := svc.Repo.DeleteOrder(ctx, order); err != nil {
		return err
	}

	if svc.ES != nil {
		if err := search.DeleteOrder(ctx, svc.ES, svc.ESIndex, order.ID); err != nil {
			logging.FromContext(ctx).Warn("es_delete_failed", "order_id", order.ID, "error", err)
		}
	}
	return nil
}

func (svc *OrderService) ListOrders(ctx context.Context, caller *models.User, desc bool, page, size int) ([]models.Order, int64, error) {
	from, limit := util.Calculate(page, size)
	return svc.Repo.ListOrders(ctx, caller.ID, desc, limit, from)
}

func (svc *OrderService) ListOrdersByStatus(ctx context.Context, caller *models.User, status string, page, size int) ([]models.Order, int64, error) {
	from, limit := util.Calculate(page, size)
	return svc.Repo.ListOrdersByStatus(ctx, caller.ID, status, limit, from)
}

// SearchOrders matches keywords against order descriptions. With ES
// configured the index serves the query; otherwise, or when ES fails, the
// database answers with a case-insensitive substring match.
func (svc *OrderService) SearchOrders(ctx context.Context, keyword string, page, size int) ([]transport.OrderDTO, int64, error) {
	if keyword == "" {
		return nil, 0, fmt.Errorf("%w: query required", ErrValidation)
	}

	from, limit := util.Calculate(page, size)

	if svc.ES != nil {
		total, hits, err := search.SearchOrders(ctx, svc.ES, svc.ESIndex, keyword, from, limit)
		if err == nil {
			return hits, total, nil
		}
		logging.FromContext(ctx).Warn("es_search_failed", "error", err)
	}

	orders, total, err := svc.Repo.SearchOrders(ctx, keyword, limit, from)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]transport.OrderDTO, len(orders))
	for i := range orders {
		dtos[i] = transport.OrderToDTO(&orders[i])
	}
	return dtos, total, nil
}

func (svc *OrderService) loadGuarded(ctx context.Context, id uint, caller *models.User) (*models.Order, error) {
	order, err := svc.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}

	if !authz.Allowed(caller.ID, order.UserID, caller.Role) {
		// same answer as a missing id, owners of other ids stay invisible
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	return order, nil
}

func (svc *OrderService) indexOrder(ctx context.Context, order *models.Order) {
	if svc.ES == nil {
		return
	}
	if err := search.IndexOrder(ctx, svc.ES, svc.ESIndex, transport.OrderToDTO(order)); err != nil {
		logging.FromContext(ctx).Warn("es_index_failed", "order_id", order.ID, "error", err)
	}
}
