package transport

import (
	"time"

	"github.com/qnrlabs/order_service/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
	Message  string `json:"message"`
}

type CreateOrderRequest struct {
	Description string `json:"description"`
	Status      string `json:"status"`
}

type UpdateOrderRequest struct {
	Description string `json:"description"`
	Status      string `json:"status"`
}

type OrderDTO struct {
	ID          uint      `json:"id"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Page struct {
	Items []OrderDTO `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Size  int        `json:"size"`
}

func OrderToDTO(o *models.Order) OrderDTO {
	return OrderDTO{
		ID:          o.ID,
		Description: o.Description,
		Status:      o.Status,
		UserID:      o.UserID,
		Username:    o.User.Username,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func NewPage(orders []models.Order, total int64, page, size int) Page {
	items := make([]OrderDTO, len(orders))
	for i := range orders {
		items[i] = OrderToDTO(&orders[i])
	}
	return Page{Items: items, Total: total, Page: page, Size: size}
}
