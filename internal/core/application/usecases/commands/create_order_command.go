package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrCityIsRequired = errors.New("city is required")
)

// CreateOrderCommand represents a request to register a new delivery order for
// a partner. The delivery point is given as raw coordinates; area resolution
// happens in the handler.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	partnerID   kernel.UUID
	productType order.ProductType
	orderType   order.Type
	latitude    float64
	longitude   float64
	city        string
	timezone    string
	otpExempt   bool

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new delivery order.
func NewCreateOrderCommand(
	orderID, partnerID kernel.UUID,
	productType order.ProductType,
	orderType order.Type,
	latitude, longitude float64,
	city, timezone string,
	otpExempt bool,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		productType: productType,
		orderType:   orderType,
		latitude:    latitude,
		longitude:   longitude,
		timezone:    timezone,
		otpExempt:   otpExempt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPartnerID(partnerID),
		cmd.setOrderType(orderType),
		cmd.setCity(city),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// PartnerID returns the owning partner.
func (c CreateOrderCommand) PartnerID() kernel.UUID { return c.partnerID }

// ProductType returns what is being delivered.
func (c CreateOrderCommand) ProductType() order.ProductType { return c.productType }

// OrderType returns delivery or pickup.
func (c CreateOrderCommand) OrderType() order.Type { return c.orderType }

// Latitude returns the destination latitude.
func (c CreateOrderCommand) Latitude() float64 { return c.latitude }

// Longitude returns the destination longitude.
func (c CreateOrderCommand) Longitude() float64 { return c.longitude }

// City returns the delivery city.
func (c CreateOrderCommand) City() string { return c.city }

// Timezone returns the IANA timezone of the delivery city.
func (c CreateOrderCommand) Timezone() string { return c.timezone }

// OTPExempt reports whether the partner waives OTP confirmation.
func (c CreateOrderCommand) OTPExempt() bool { return c.otpExempt }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setPartnerID(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	c.partnerID = partnerID
	return nil
}

func (c *CreateOrderCommand) setOrderType(orderType order.Type) error {
	if orderType != order.Delivery && orderType != order.Pickup {
		return errs.NewValueIsInvalidError("orderType")
	}
	return nil
}

func (c *CreateOrderCommand) setCity(city string) error {
	if city == "" {
		return ErrCityIsRequired
	}
	c.city = city
	return nil
}
