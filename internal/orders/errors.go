package orders

import "fmt"

// Purchase error taxonomy. Each error carries enough structured context
// for the REST layer to pick an HTTP status and render a useful message.

// MissingShippingAddressError means the owning order has no shipping
// address; no remote call was made.
type MissingShippingAddressError struct {
	OrderID     string
	OrderNumber string
}

func (e *MissingShippingAddressError) Error() string {
	return fmt.Sprintf("no shipping address found for order %s", e.OrderNumber)
}

// AlreadyPurchasedError means the order item already carries a remote
// order number and must not be purchased again.
type AlreadyPurchasedError struct {
	OrderItemID string
	OrderNumber string
}

func (e *AlreadyPurchasedError) Error() string {
	return fmt.Sprintf("order item %s already purchased as order %s", e.OrderItemID, e.OrderNumber)
}

// PresetNotFoundError means the remote API reported the configured preset
// as missing, or answered with an empty body.
type PresetNotFoundError struct {
	PresetID    string
	Environment string
}

func (e *PresetNotFoundError) Error() string {
	return fmt.Sprintf("preset %s does not exist in %s", e.PresetID, e.Environment)
}

// PresetFetchError wraps any other failure while fetching the preset.
type PresetFetchError struct {
	PresetID string
	Err      error
}

func (e *PresetFetchError) Error() string {
	return fmt.Sprintf("failed to fetch preset %s: %v", e.PresetID, e.Err)
}

func (e *PresetFetchError) Unwrap() error {
	return e.Err
}

// SubmissionError wraps a failed purchase submission.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("failed placing the order: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// EmptyResponseError means the purchase submission succeeded at the HTTP
// level but returned no usable order object.
type EmptyResponseError struct {
	CustomerReference string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("unable to place order %s: empty response", e.CustomerReference)
}
