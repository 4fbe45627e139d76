package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/gomall/internal/datamodels/cart"
	"github.com/example/gomall/internal/datamodels/order"
	"github.com/example/gomall/internal/datamodels/wishlist"
	"github.com/example/gomall/internal/infra/mq"
	"github.com/example/gomall/internal/logger"
	"github.com/example/gomall/internal/repository/mysql"
)

// LineItem 下单请求中的一行，quantity 省略时按 1 处理
type LineItem struct {
	ProductID int64 `json:"id"`
	Quantity  int64 `json:"quantity"`
}

// CardInput 非现金支付的原始卡信息。只在校验和掩码时使用，原始卡号和 CVV 不落库。
type CardInput struct {
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	Items       []LineItem `json:"products"`
	Address     string     `json:"address"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	PaymentType string     `json:"paymentType"`
	Card        *CardInput `json:"paymentDetails"`
}

// OrderService 下单与订单查询。下单是一个整体事务：
// 库存校验与扣减、订单落库、购物车/心愿单清理要么全部生效，要么全部回滚。
type OrderService struct {
	db        *gorm.DB
	orderRepo order.Repository
	mail      MailPublisher
	log       *zap.Logger
}

// NewOrderService 创建订单服务
func NewOrderService(db *gorm.DB, mail MailPublisher) *OrderService {
	return &OrderService{
		db:        db,
		orderRepo: mysql.NewOrderRepository(db),
		mail:      mail,
		log:       logger.L(),
	}
}

// PlaceOrder 下单。成功返回订单 ID；任何校验、引用或库存错误都会在
// 不产生任何写入的情况下返回。
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, req *PlaceOrderRequest) (int64, error) {
	GetMonitor().RecordOrderRequest()

	if userID <= 0 {
		return 0, ErrNotAuthenticated
	}
	if err := validateOrderRequest(req); err != nil {
		GetMonitor().RecordOrderRejected()
		return 0, err
	}

	var placed *order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productRepo := mysql.NewProductRepository(tx)

		items := make([]order.Item, 0, len(req.Items))
		for _, li := range req.Items {
			qty := li.Quantity
			if qty == 0 {
				qty = 1
			}

			p, err := productRepo.GetByID(ctx, li.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductNotFoundError{ProductID: li.ProductID}
				}
				return err
			}
			if qty > p.Stock {
				return &InsufficientStockError{ProductName: p.Name, Requested: qty, Available: p.Stock}
			}

			// 条件扣减兜底：读完库存到执行 UPDATE 之间如果有并发订单抢先提交，
			// 这里会扣不动，同样按库存不足处理。
			ok, err := productRepo.DecrementStock(ctx, p.ID, qty)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientStockError{ProductName: p.Name, Requested: qty, Available: p.Stock}
			}

			// 快照当前的名称/价格/主图，后续商品编辑不影响历史订单
			items = append(items, order.Item{
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.SellingPrice,
				Image:     p.FirstImage(),
				Quantity:  qty,
			})
		}

		o := &order.Order{
			UserID:      userID,
			Items:       items,
			Address:     req.Address,
			Phone:       req.Phone,
			PaymentType: req.PaymentType,
			OrderTime:   time.Now(),
		}
		if req.PaymentType != order.PaymentCash {
			o.Payment = order.CardDetails{
				Name:   req.Card.CardName,
				Number: MaskCardNumber(req.Card.CardNumber),
				Expiry: req.Card.Expiry,
			}
		}
		if err := mysql.NewOrderRepository(tx).Create(ctx, o); err != nil {
			return err
		}

		if err := s.cleanupAfterOrder(ctx, tx, userID, req.Items); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			GetMonitor().RecordStockConflict()
		}
		GetMonitor().RecordOrderRejected()
		return 0, err
	}

	GetMonitor().RecordOrderPlaced()

	// 提交之后的确认邮件是尽力而为：投递失败只记日志，绝不影响已提交的订单
	s.publishConfirmation(ctx, placed, req.Email)

	return placed.ID, nil
}

// cleanupAfterOrder 把本次下单的商品从购物车和心愿单里移除；
// 集合被清空时直接删除整条记录。
func (s *OrderService) cleanupAfterOrder(ctx context.Context, tx *gorm.DB, userID int64, lines []LineItem) error {
	ordered := make(map[int64]struct{}, len(lines))
	for _, li := range lines {
		ordered[li.ProductID] = struct{}{}
	}

	cartRepo := mysql.NewCartRepository(tx)
	c, err := cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	if c != nil {
		kept := make([]cart.Item, 0, len(c.Items))
		for _, it := range c.Items {
			if _, hit := ordered[it.ProductID]; !hit {
				kept = append(kept, it)
			}
		}
		switch {
		case len(kept) == 0:
			if err := cartRepo.Delete(ctx, c.ID); err != nil {
				return err
			}
		case len(kept) != len(c.Items):
			if err := cartRepo.SetItems(ctx, c.ID, kept); err != nil {
				return err
			}
		}
	}

	wishRepo := mysql.NewWishlistRepository(tx)
	w, err := wishRepo.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	if w != nil {
		kept := make([]wishlist.Item, 0, len(w.Items))
		for _, it := range w.Items {
			if _, hit := ordered[it.ProductID]; !hit {
				kept = append(kept, it)
			}
		}
		switch {
		case len(kept) == 0:
			if err := wishRepo.Delete(ctx, w.ID); err != nil {
				return err
			}
		case len(kept) != len(w.Items):
			if err := wishRepo.SetItems(ctx, w.ID, kept); err != nil {
				return err
			}
		}
	}

	return nil
}

// publishConfirmation 投递订单确认邮件事件。邮件内容完全来自已提交的订单快照。
func (s *OrderService) publishConfirmation(ctx context.Context, o *order.Order, email string) {
	if s.mail == nil {
		return
	}
	if email == "" {
		u, err := mysql.NewUserRepository(s.db).GetByID(ctx, o.UserID)
		if err != nil {
			s.log.Warn("skip order confirmation, user lookup failed",
				zap.Int64("order_id", o.ID), zap.Error(err))
			return
		}
		email = u.Email
	}

	msg := &mq.EmailMessage{
		Kind:        mq.KindOrderConfirmation,
		To:          email,
		OrderID:     o.ID,
		Address:     o.Address,
		Phone:       o.Phone,
		PaymentType: o.PaymentType,
	}
	for _, it := range o.Items {
		msg.Items = append(msg.Items, mq.EmailOrderItem{
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
		msg.Total += it.Price * it.Quantity
	}

	if err := s.mail.Publish(ctx, msg); err != nil {
		GetMonitor().RecordMQError()
		s.log.Warn("failed to publish order confirmation",
			zap.Int64("order_id", o.ID), zap.Error(err))
	}
}

// ListByUser 查询指定用户的订单，新订单在前
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]*order.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// ListRecent 查询最新订单（卖家后台）
func (s *OrderService) ListRecent(ctx context.Context, limit int) ([]*order.Order, error) {
	return s.orderRepo.ListRecent(ctx, limit)
}

func validateOrderRequest(req *PlaceOrderRequest) error {
	if req == nil || len(req.Items) == 0 {
		return ErrEmptyOrder
	}
	for _, li := range req.Items {
		if li.Quantity < 0 {
			return ErrInvalidQuantity
		}
	}
	if strings.TrimSpace(req.Address) == "" {
		return ErrMissingAddress
	}
	switch req.PaymentType {
	case order.PaymentCash:
		return nil
	case order.PaymentCard, order.PaymentCredit, order.PaymentDebit:
	default:
		return ErrInvalidPaymentType
	}
	if req.Card == nil ||
		req.Card.CardName == "" ||
		req.Card.CardNumber == "" ||
		req.Card.Expiry == "" ||
		req.Card.CVV == "" {
		return ErrMissingCardDetails
	}
	if len(cardDigits(req.Card.CardNumber)) < 4 {
		return ErrMissingCardDetails
	}
	return nil
}

// MaskCardNumber 固定格式掩码，只保留末四位
func MaskCardNumber(raw string) string {
	digits := cardDigits(raw)
	if len(digits) < 4 {
		return "**** **** **** ****"
	}
	return "**** **** **** " + digits[len(digits)-4:]
}

func cardDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
