package public

import (
	"errors"

	"github.com/shopfinity/internal/cart"
	"github.com/shopfinity/internal/http/response"
	"github.com/shopfinity/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	if respondWeakPassword(c, err) {
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, key: "error.email_exists"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, key: "error.user_disabled"},
	{target: service.ErrFullNameRequired, code: response.CodeBadRequest, key: "error.full_name_required"},
	{target: service.ErrProfileEmpty, code: response.CodeBadRequest, key: "error.profile_empty"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductUnavailable, code: response.CodeBadRequest, key: "error.product_unavailable"},
}

var listingErrorRules = []mappedHandlerError{
	{target: service.ErrAuthRequired, code: response.CodeUnauthorized, key: "error.unauthorized"},
	{target: service.ErrInvalidListing, code: response.CodeBadRequest, key: "error.listing_invalid"},
	{target: service.ErrInvalidPrice, code: response.CodeBadRequest, key: "error.price_invalid"},
	{target: service.ErrInvalidCondition, code: response.CodeBadRequest, key: "error.condition_invalid"},
	{target: service.ErrCategoryNotFound, code: response.CodeBadRequest, key: "error.category_not_found"},
}

var imageErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrForbidden, code: response.CodeForbidden, key: "error.forbidden"},
	{target: service.ErrTooManyImages, code: response.CodeBadRequest, key: "error.images_too_many"},
	{target: service.ErrNoValidImages, code: response.CodeBadRequest, key: "error.images_none_valid"},
	{target: service.ErrInvalidFileType, code: response.CodeBadRequest, key: "error.images_type_invalid"},
	{target: service.ErrFileTooLarge, code: response.CodePayloadTooLarge, key: "error.images_too_large"},
	{target: service.ErrStorageUnavailable, code: response.CodeUnavailable, key: "error.storage_unavailable"},
}

var cartErrorRules = []mappedHandlerError{
	{target: cart.ErrNotReady, code: response.CodeUnavailable, key: "error.cart_not_ready"},
	{target: cart.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: cart.ErrInvalidProduct, code: response.CodeBadRequest, key: "error.cart_item_invalid"},
	{target: cart.ErrNoIdentity, code: response.CodeBadRequest, key: "error.cart_identity_missing"},
	{target: cart.ErrBackendUnavailable, code: response.CodeUnavailable, key: "error.cart_unavailable"},
	{target: cart.ErrWriteFailed, code: response.CodeInternal, key: "error.cart_write_failed"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrAuthRequired, code: response.CodeUnauthorized, key: "error.checkout_login_required"},
	{target: service.ErrShippingInfoRequired, code: response.CodeBadRequest, key: "error.shipping_info_required"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrAuthRequired, code: response.CodeUnauthorized, key: "error.unauthorized"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
}

func respondAuthError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, authErrorRules, response.CodeInternal, fallbackKey)
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartErrorRules, productErrorRules), response.CodeInternal, "error.cart_update_failed")
}

func respondListingError(c *gin.Context, err error) {
	respondWithMappedError(c, err, listingErrorRules, response.CodeInternal, "error.listing_create_failed")
}

func respondImageError(c *gin.Context, err error) {
	respondWithMappedError(c, err, imageErrorRules, response.CodeInternal, "error.images_upload_failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(checkoutErrorRules, cartErrorRules, productErrorRules), response.CodeInternal, "error.checkout_failed")
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_fetch_failed")
}
