package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KoboPoint/KoboPoint-Backend/providers/bills"
	"github.com/KoboPoint/KoboPoint-Backend/services/monitoring/logging"
	"github.com/KoboPoint/KoboPoint-Backend/services/pricing"
	"github.com/KoboPoint/KoboPoint-Backend/services/transaction"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FulfillmentService sequences a purchase: price the product, debit the
// wallet, call the provider, and credit the wallet back if the provider call
// fails. The ledger's atomicity is the only concurrency control; no lock is
// held across the provider call, so the refund is the correctness mechanism.
type FulfillmentService struct {
	pricing  PriceResolver
	ledger   LedgerGateway
	vendor   BillVendor
	recorder OutcomeRecorder
	logger   *logging.Logger
}

func NewFulfillmentService(
	priceResolver PriceResolver,
	ledger LedgerGateway,
	vendor BillVendor,
	recorder OutcomeRecorder,
	logger *logging.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		pricing:  priceResolver,
		ledger:   ledger,
		vendor:   vendor,
		recorder: recorder,
		logger:   logger,
	}
}

// Purchase runs one saga execution. Errors before the debit are terminal with
// no money movement. After the debit, every failure path, panics included,
// credits the exact debited amount back before the error is surfaced. The
// saga never retries; retrying is the caller's decision with a fresh id.
func (s *FulfillmentService) Purchase(ctx context.Context, customerID int64, req PurchaseRequest) (*PurchaseOutcome, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	// The provider serves a fixed set of networks. An unknown one is a
	// malformed request and must be rejected before any money moves.
	if _, err := bills.NetworkCode(req.Network); err != nil {
		return nil, fmt.Errorf("%w, supported networks: %s", err, strings.Join(bills.SupportedNetworks(), ", "))
	}

	// Pricing
	price, err := s.pricing.ResolvePrice(ctx, pricing.PriceQuery{
		Kind:    req.Type,
		Network: req.Network,
		Amount:  req.Amount,
		PlanID:  req.PlanID,
	})
	if err != nil {
		return nil, err
	}

	// Debiting
	if _, err := s.ledger.AdjustBalance(ctx, customerID, price.Charge.Neg()); err != nil {
		return nil, err
	}

	// Once money has moved the saga must run to completion: a disconnected
	// caller must not be able to strand a debit.
	ctx = context.WithoutCancel(ctx)

	// Fulfilling
	resp, fulfillErr := s.fulfill(req, price)
	if fulfillErr != nil {
		return s.compensate(ctx, customerID, req, price, fulfillErr)
	}

	outcome := &PurchaseOutcome{
		Success:         true,
		Charged:         price.Charge,
		RequestID:       req.RequestID,
		ProviderStatus:  resp.Status,
		ProviderMessage: resp.Message(),
		OrderID:         resp.OrderID.String(),
	}

	s.record(ctx, customerID, req, outcome, transaction.StatusCompleted, resp.Raw)
	return outcome, nil
}

// fulfill dispatches the provider call for the product type. The recover
// keeps the compensation guarantee honest: a panic anywhere in the provider
// path surfaces as an error, and errors after a debit always refund.
func (s *FulfillmentService) fulfill(req PurchaseRequest, price *pricing.Price) (resp *bills.ClubKonnectResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("fulfillment aborted: %v", r)
		}
	}()

	switch req.Type {
	case pricing.KindAirtime:
		return s.vendor.BuyAirtime(bills.AirtimeRequest{
			Network:   req.Network,
			Phone:     req.Phone,
			Amount:    price.FaceValue.StringFixed(0),
			RequestID: req.RequestID,
		})
	case pricing.KindData:
		return s.vendor.BuyData(bills.DataRequest{
			Network:   req.Network,
			Phone:     req.Phone,
			PlanID:    price.PlanID,
			RequestID: req.RequestID,
		})
	default:
		return nil, fmt.Errorf("%w: %q", pricing.ErrUnknownKind, req.Type)
	}
}

// compensate credits back the exact debited amount, records the failed
// attempt and hands the caller an outcome that says so.
func (s *FulfillmentService) compensate(ctx context.Context, customerID int64, req PurchaseRequest, price *pricing.Price, fulfillErr error) (*PurchaseOutcome, error) {
	if _, refundErr := s.ledger.AdjustBalance(ctx, customerID, price.Charge); refundErr != nil {
		// A debited, unfulfilled, unrefunded wallet. Credits cannot be
		// rejected, so reaching this line means the ledger itself is broken.
		s.logger.WithFields(logrus.Fields{
			"customer_id": customerID,
			"request_id":  req.RequestID,
			"charged":     price.Charge.StringFixed(2),
			"cause":       fulfillErr.Error(),
		}).Error("refund rejected after failed fulfillment, wallet out of balance")
		return nil, fmt.Errorf("%w: %v (fulfillment failure: %v)", ErrRefundFailed, refundErr, fulfillErr)
	}

	outcome := &PurchaseOutcome{
		Success:   false,
		Refunded:  true,
		Charged:   price.Charge,
		RequestID: req.RequestID,
	}

	var raw []byte
	var provErr *bills.ProviderError
	if errors.As(fulfillErr, &provErr) {
		outcome.ProviderStatus = provErr.Status
		outcome.ProviderMessage = provErr.Message
		if provErr.Response != nil {
			outcome.OrderID = provErr.Response.OrderID.String()
			raw = provErr.Response.Raw
		}
	} else {
		outcome.ProviderMessage = fulfillErr.Error()
	}

	s.record(ctx, customerID, req, outcome, transaction.StatusRefunded, raw)
	return outcome, fulfillErr
}

// record writes the audit row. Persistence failures are logged and dropped:
// the audit trail must never change whether money moved.
func (s *FulfillmentService) record(ctx context.Context, customerID int64, req PurchaseRequest, outcome *PurchaseOutcome, status string, raw []byte) {
	rec := transaction.BillOutcomeRecord{
		RequestID:       req.RequestID,
		CustomerID:      customerID,
		BillType:        string(req.Type),
		Network:         req.Network,
		Phone:           req.Phone,
		Amount:          outcome.Charged,
		Status:          status,
		ProviderStatus:  outcome.ProviderStatus,
		ProviderMessage: outcome.ProviderMessage,
		OrderID:         outcome.OrderID,
		ProviderPayload: raw,
	}

	model, err := s.recorder.RecordBillOutcome(ctx, rec)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"request_id": req.RequestID,
			"status":     status,
		}).Error(fmt.Sprintf("failed to record bill outcome: %v", err))
		return
	}
	outcome.Reference = model.Reference
}
