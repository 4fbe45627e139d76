package service

import (
	"errors"
	"fmt"
)

// 校验类错误：请求在写入任何数据之前就被拒绝
var (
	ErrNotAuthenticated   = errors.New("user not authenticated")
	ErrEmptyOrder         = errors.New("order must contain at least one product")
	ErrMissingAddress     = errors.New("shipping address is required")
	ErrInvalidPaymentType = errors.New("payment type must be cash, card, credit or debit")
	ErrMissingCardDetails = errors.New("card name, number, expiry and cvv are required for card payment")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")

	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidAccountType = errors.New("account type must be User or Seller")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("user not verified")
	ErrAlreadyVerified    = errors.New("user already verified")
	ErrOTPExpired         = errors.New("otp expired")
	ErrOTPMismatch        = errors.New("invalid otp")

	ErrAlreadyInCart     = errors.New("product already in cart")
	ErrNotInCart         = errors.New("product not in cart")
	ErrCartNotFound      = errors.New("cart not found")
	ErrAlreadyInWishlist = errors.New("product already in wishlist")
	ErrNotInWishlist     = errors.New("product not in wishlist")
	ErrWishlistNotFound  = errors.New("wishlist not found")

	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrAlreadyReviewed = errors.New("product already reviewed by this user")
)

// ProductNotFoundError 引用了不存在的商品，整个操作作废
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %d", e.ProductID)
}

// InsufficientStockError 下单数量超过当前库存，整个操作作废
type InsufficientStockError struct {
	ProductName string
	Requested   int64
	Available   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("requested quantity (%d) exceeds available stock (%d) for product %s",
		e.Requested, e.Available, e.ProductName)
}
