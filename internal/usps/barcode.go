package usps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// BarcodeID is the Intelligent Mail Barcode identifier carried in the
// first two digits of the IMb input. From the "Intelligent Mail Barcode
// Technical Resource Guide", https://postalpro.usps.com/node/221.
type BarcodeID string

const (
	BarcodeDefault      BarcodeID = "00" // default / no OEL information
	BarcodeCarrierRoute BarcodeID = "10" // carrier route, ECR, FIRM
	BarcodeFiveDigit    BarcodeID = "20" // 5-digit/scheme
	BarcodeThreeDigit   BarcodeID = "30" // 3-digit/scheme
	BarcodeAADC         BarcodeID = "40" // area distribution center
	BarcodeMixedAADC    BarcodeID = "50" // mixed ADC, origin mixed ADC
)

// Service Type IDentifiers, from the STID table at
// https://postalpro.usps.com/mailing/service-type-identifiers.
const (
	// STIDNoAddressCorrections is USPS Marketing Mail, Basic automation,
	// no address corrections.
	STIDNoAddressCorrections = "301"
	// STIDReturnServiceRequested is USPS Marketing Mail, Basic
	// automation, with Return Service Requested.
	STIDReturnServiceRequested = "272"
)

// FieldError reports an IMb input field that failed width or charset
// validation. Validation failure is fatal for the mailpiece; no partial
// barcode is ever requested.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func digitsOnly(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ValidateBarcodeInput checks every IMb field before the encoder is
// called: barcode id is two digits with the second at most '4', service
// id three digits, mailer id nine digits, serial id six digits, and the
// routing code empty or 5, 9 or 11 digits.
func ValidateBarcodeInput(barcodeID, serviceID, mailerID, serialID, routingCode string) error {
	if len(barcodeID) != 2 || !digitsOnly(barcodeID) || barcodeID[1] > '4' {
		return &FieldError{Field: "barcode_id", Value: barcodeID}
	}
	if len(serviceID) != 3 || !digitsOnly(serviceID) {
		return &FieldError{Field: "service_id", Value: serviceID}
	}
	if len(mailerID) != 9 || !digitsOnly(mailerID) {
		return &FieldError{Field: "mailer_id", Value: mailerID}
	}
	if len(serialID) != 6 || !digitsOnly(serialID) {
		return &FieldError{Field: "serial_id", Value: serialID}
	}
	switch len(routingCode) {
	case 0, 5, 9, 11:
	default:
		return &FieldError{Field: "routing_code", Value: routingCode}
	}
	if !digitsOnly(routingCode) {
		return &FieldError{Field: "routing_code", Value: routingCode}
	}
	return nil
}

type imbResponse struct {
	Code string `json:"code"`
	IMb  string `json:"imb"`
}

// EncodeBarcode validates the IMb input fields, requests the encoding and
// returns the font-encoded string over the characters F, A, D and T.
func (c *Client) EncodeBarcode(ctx context.Context, barcodeID, serviceID, mailerID, serialID, routingCode string) (string, error) {
	if err := ValidateBarcodeInput(barcodeID, serviceID, mailerID, serialID, routingCode); err != nil {
		return "", err
	}

	qry := barcodeID + serviceID + mailerID + serialID + routingCode
	url := fmt.Sprintf("%s?imb=%s", c.encoderURL, qry)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create encode request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("encode request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("encoder status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read encoder response: %w", err)
	}

	var imb imbResponse
	if err := json.Unmarshal(body, &imb); err != nil {
		return "", fmt.Errorf("failed to parse encoder response: %w", err)
	}
	if imb.Code != "00" {
		return "", fmt.Errorf("encoder error code %s", imb.Code)
	}
	return imb.IMb, nil
}
