package response

import (
	"errors"
	"net/http"

	"github.com/workbridge/erp-backend-go/internal/domain/attendance"
	"github.com/workbridge/erp-backend-go/internal/domain/auth"
	"github.com/workbridge/erp-backend-go/internal/domain/company"
	"github.com/workbridge/erp-backend-go/internal/domain/customer"
	"github.com/workbridge/erp-backend-go/internal/domain/delivery"
	"github.com/workbridge/erp-backend-go/internal/domain/finance"
	"github.com/workbridge/erp-backend-go/internal/domain/insight"
	"github.com/workbridge/erp-backend-go/internal/domain/invoice"
	"github.com/workbridge/erp-backend-go/internal/domain/leave"
	"github.com/workbridge/erp-backend-go/internal/domain/notification"
	"github.com/workbridge/erp-backend-go/internal/domain/performance"
	"github.com/workbridge/erp-backend-go/internal/domain/product"
	"github.com/workbridge/erp-backend-go/internal/domain/proposal"
	"github.com/workbridge/erp-backend-go/internal/domain/settings"
	"github.com/workbridge/erp-backend-go/internal/domain/user"
	"github.com/workbridge/erp-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, err.Error())

	// Users and companies
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, company.ErrSlugExists):
		Conflict(w, err.Error())
	case errors.Is(err, settings.ErrSettingsNotFound):
		NotFound(w, err.Error())

	// Attendance
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNotClockedIn):
		BadRequest(w, err.Error(), nil)

	// Leave
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, leave.ErrInsufficientBalance),
		errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrAlreadyProcessed):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrUnauthorizedAccess):
		Forbidden(w, err.Error())

	// Finance
	case errors.Is(err, finance.ErrTransactionNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, finance.ErrInvalidAmount):
		BadRequest(w, err.Error(), nil)

	// Customers and products
	case errors.Is(err, customer.ErrCustomerNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, product.ErrProductNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, product.ErrSKUExists):
		Conflict(w, err.Error())

	// Invoices, proposals, deliveries
	case errors.Is(err, invoice.ErrInvoiceNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, invoice.ErrInvalidTransition),
		errors.Is(err, invoice.ErrNoItems):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, invoice.ErrNumberConflict),
		errors.Is(err, invoice.ErrNumberingExhausted):
		Conflict(w, err.Error())
	case errors.Is(err, proposal.ErrProposalNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, proposal.ErrInvalidTransition),
		errors.Is(err, proposal.ErrNoItems):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, proposal.ErrNumberConflict):
		Conflict(w, err.Error())
	case errors.Is(err, delivery.ErrDeliveryNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, delivery.ErrNoItems):
		BadRequest(w, err.Error(), nil)

	// Performance
	case errors.Is(err, performance.ErrGoalNotFound),
		errors.Is(err, performance.ErrReviewNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, performance.ErrInvalidRating):
		BadRequest(w, err.Error(), nil)

	// Notifications and insights
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, insight.ErrInsightNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, insight.ErrUnknownType):
		BadRequest(w, err.Error(), nil)

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
