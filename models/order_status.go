package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// AllStatuses lists every valid status in lifecycle order.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusPreparing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// ParseOrderStatus rejects anything outside the closed set.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s OrderStatus) Valid() bool {
	_, err := ParseOrderStatus(string(s))
	return err == nil
}

// IsTerminal reports whether no further transition is accepted.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsActive is the dashboard notion of an order still in flight.
func (s OrderStatus) IsActive() bool {
	return !s.IsTerminal()
}

// Lane is the order board column a status renders in.
func (s OrderStatus) Lane() Lane {
	switch s {
	case StatusPending:
		return LaneNew
	case StatusPreparing:
		return LaneInKitchen
	case StatusReady, StatusOutForDelivery:
		return LaneReadyDelivery
	default:
		return LaneCompleted
	}
}

func (s OrderStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown order status %q", string(s))
	}
	return string(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	raw, err := scanString(value)
	if err != nil {
		return err
	}
	parsed, err := ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s *OrderStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Lane groups statuses on the order board.
type Lane string

const (
	LaneNew           Lane = "new"
	LaneInKitchen     Lane = "in_kitchen"
	LaneReadyDelivery Lane = "ready_delivery"
	LaneCompleted     Lane = "completed"
)

// Surface is the UI affordance that triggers a transition.
type Surface string

const (
	SurfaceKitchen     Surface = "kitchen"
	SurfaceOrderDetail Surface = "order_detail"
)

type transitionRule struct {
	from     OrderStatus
	to       OrderStatus
	surfaces []Surface
}

var transitionTable = []transitionRule{
	{StatusPending, StatusPreparing, []Surface{SurfaceKitchen, SurfaceOrderDetail}},
	{StatusPreparing, StatusReady, []Surface{SurfaceKitchen, SurfaceOrderDetail}},
	{StatusReady, StatusOutForDelivery, []Surface{SurfaceOrderDetail}},
	{StatusReady, StatusDelivered, []Surface{SurfaceOrderDetail}},
	{StatusOutForDelivery, StatusDelivered, []Surface{SurfaceOrderDetail}},
	{StatusPending, StatusCancelled, []Surface{SurfaceOrderDetail}},
	{StatusPreparing, StatusCancelled, []Surface{SurfaceOrderDetail}},
	{StatusReady, StatusCancelled, []Surface{SurfaceOrderDetail}},
	{StatusOutForDelivery, StatusCancelled, []Surface{SurfaceOrderDetail}},
}

// TransitionError explains why a status change is not allowed.
type TransitionError struct {
	From     OrderStatus
	To       OrderStatus
	Surface  Surface
	Terminal bool
}

func (e *TransitionError) Error() string {
	if e.Terminal {
		return fmt.Sprintf("order is %s and accepts no further transitions", e.From)
	}
	if e.Surface != "" {
		return fmt.Sprintf("transition %s -> %s is not available from %s", e.From, e.To, e.Surface)
	}
	return fmt.Sprintf("transition %s -> %s is not allowed", e.From, e.To)
}

// CanTransition checks the transition table. Same-status requests are handled
// by the caller as no-ops and are not part of the table.
func CanTransition(from, to OrderStatus, surface Surface) error {
	if from.IsTerminal() {
		return &TransitionError{From: from, To: to, Surface: surface, Terminal: true}
	}
	for _, rule := range transitionTable {
		if rule.from != from || rule.to != to {
			continue
		}
		if surface == "" {
			return nil
		}
		for _, s := range rule.surfaces {
			if s == surface {
				return nil
			}
		}
		return &TransitionError{From: from, To: to, Surface: surface}
	}
	return &TransitionError{From: from, To: to}
}

// SourcesFor returns every status that may move to target from the surface.
func SourcesFor(target OrderStatus, surface Surface) []OrderStatus {
	var out []OrderStatus
	for _, rule := range transitionTable {
		if rule.to != target {
			continue
		}
		for _, s := range rule.surfaces {
			if surface == "" || s == surface {
				out = append(out, rule.from)
				break
			}
		}
	}
	return out
}

// OrderType distinguishes pickup from delivery orders.
type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(s) {
	case OrderTypePickup, OrderTypeDelivery:
		return OrderType(s), nil
	}
	return "", fmt.Errorf("unknown order type %q", s)
}

func (t OrderType) Value() (driver.Value, error) {
	if _, err := ParseOrderType(string(t)); err != nil {
		return nil, err
	}
	return string(t), nil
}

func (t *OrderType) Scan(value interface{}) error {
	raw, err := scanString(value)
	if err != nil {
		return err
	}
	parsed, err := ParseOrderType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// PaymentMethod is how the customer pays. Processing itself is delegated.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCard:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

func (m PaymentMethod) Value() (driver.Value, error) {
	if _, err := ParsePaymentMethod(string(m)); err != nil {
		return nil, err
	}
	return string(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	raw, err := scanString(value)
	if err != nil {
		return err
	}
	parsed, err := ParsePaymentMethod(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

func (p PaymentStatus) Value() (driver.Value, error) {
	if _, err := ParsePaymentStatus(string(p)); err != nil {
		return nil, err
	}
	return string(p), nil
}

func (p *PaymentStatus) Scan(value interface{}) error {
	raw, err := scanString(value)
	if err != nil {
		return err
	}
	parsed, err := ParsePaymentStatus(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func scanString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("unexpected NULL enum value")
	default:
		return "", fmt.Errorf("unsupported enum column type %T", value)
	}
}
