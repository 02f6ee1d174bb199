package bills

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/KoboPoint/KoboPoint-Backend/providers"
	"github.com/KoboPoint/KoboPoint-Backend/services/monitoring/logging"
	"github.com/KoboPoint/KoboPoint-Backend/utils"
)

var (
	// ErrProviderUnreachable covers transport failures, non-2xx replies and
	// bodies we cannot parse. The caller cannot tell whether the order went
	// through, so it must be handled exactly like a reported failure.
	ErrProviderUnreachable = errors.New("bill provider unreachable")
	ErrUnknownNetwork      = errors.New("unknown mobile network")
)

// ProviderError is a provider-reported failure: the HTTP exchange worked but
// the order was rejected.
type ProviderError struct {
	Status   string
	Message  string
	Response *ClubKonnectResponse
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider rejected order: %s (%s)", e.Message, e.Status)
}

type ClubKonnectProvider struct {
	providers.BaseProvider
	config *BillConfig
	logger *logging.Logger
}

type BillConfig struct {
	BillProviderName string `mapstructure:"BILL_PROVIDER_NAME"`
	CKBaseURL        string `mapstructure:"CK_BASE_URL"`
	CKUserID         string `mapstructure:"CK_USER_ID"`
	CKAPIKey         string `mapstructure:"CK_API_KEY"`
	CKCallbackURL    string `mapstructure:"CK_CALLBACK_URL"`
}

func LoadBillConfig() (*BillConfig, error) {
	var c BillConfig
	if err := utils.LoadCustomConfig(utils.EnvPath, &c); err != nil {
		return nil, fmt.Errorf("could not load bill provider config: %w", err)
	}
	if c.BillProviderName == "" {
		c.BillProviderName = providers.ClubKonnect
	}
	return &c, nil
}

// NewBillProvider takes credentials explicitly so nothing reaches for package
// level state at request time.
func NewBillProvider(c *BillConfig, logger *logging.Logger) *ClubKonnectProvider {
	return &ClubKonnectProvider{
		BaseProvider: providers.BaseProvider{
			Name:    c.BillProviderName,
			BaseURL: c.CKBaseURL,
			APIKey:  c.CKAPIKey,
			Client: &http.Client{
				Timeout: time.Second * 30,
			},
		},
		config: c,
		logger: logger,
	}
}

// callEndpoint performs a credentialed GET against one of the provider's .asp
// endpoints. ClubKonnect takes everything, credentials included, in the query
// string and never a request body.
func (p *ClubKonnectProvider) callEndpoint(endpoint string, params url.Values) ([]byte, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid provider base url: %w", err)
	}

	base.Path += endpoint

	q := base.Query()
	q.Set("UserID", p.config.CKUserID)
	q.Set("APIKey", p.config.CKAPIKey)
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	base.RawQuery = q.Encode()

	resp, err := p.MakeRequest("GET", base.String(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	// Read the response body
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logger.Error("failed to read response body", err)
		return nil, fmt.Errorf("%w: reading body: %v", ErrProviderUnreachable, err)
	}

	// Log the body
	p.logger.Debug(fmt.Sprintf("response body: %v\nresponse statusCode: %v", string(bodyBytes), resp.StatusCode))

	// Check the status code
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d URL: %s", ErrProviderUnreachable, resp.StatusCode, resp.Request.URL)
	}

	return bodyBytes, nil
}

// order runs a purchase endpoint and enforces the status contract: a decoded
// body without a recognized success status is a ProviderError carrying the
// provider's own message.
func (p *ClubKonnectProvider) order(endpoint string, params url.Values) (*ClubKonnectResponse, error) {
	bodyBytes, err := p.callEndpoint(endpoint, params)
	if err != nil {
		return nil, err
	}

	var model ClubKonnectResponse
	if err := json.Unmarshal(bodyBytes, &model); err != nil {
		return nil, fmt.Errorf("%w: error decoding response body: %v", ErrProviderUnreachable, err)
	}
	model.Raw = bodyBytes

	if !model.Successful() {
		return nil, &ProviderError{
			Status:   model.Status,
			Message:  model.Message(),
			Response: &model,
		}
	}

	return &model, nil
}

func (p *ClubKonnectProvider) BuyAirtime(request AirtimeRequest) (*ClubKonnectResponse, error) {
	code, err := NetworkCode(request.Network)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("MobileNetwork", code)
	params.Set("Amount", request.Amount)
	params.Set("MobileNumber", request.Phone)
	params.Set("RequestID", request.RequestID)
	if p.config.CKCallbackURL != "" {
		params.Set("CallBackURL", p.config.CKCallbackURL)
	}

	return p.order("APIAirtimeV1.asp", params)
}

func (p *ClubKonnectProvider) BuyData(request DataRequest) (*ClubKonnectResponse, error) {
	code, err := NetworkCode(request.Network)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("MobileNetwork", code)
	params.Set("DataPlan", request.PlanID)
	params.Set("MobileNumber", request.Phone)
	params.Set("RequestID", request.RequestID)
	if p.config.CKCallbackURL != "" {
		params.Set("CallBackURL", p.config.CKCallbackURL)
	}

	return p.order("APIDatabundleV1.asp", params)
}

func (p *ClubKonnectProvider) BuyCableTV(request CableTVRequest) (*ClubKonnectResponse, error) {
	params := url.Values{}
	params.Set("CableTV", request.Provider)
	params.Set("Package", request.PackageCode)
	params.Set("SmartCardNo", request.SmartCardNo)
	params.Set("PhoneNo", request.Phone)
	params.Set("RequestID", request.RequestID)

	return p.order("APICableTVV1.asp", params)
}

func (p *ClubKonnectProvider) BuyElectricity(request ElectricityRequest) (*ClubKonnectResponse, error) {
	params := url.Values{}
	params.Set("ElectricCompany", request.Company)
	params.Set("MeterType", request.MeterType)
	params.Set("MeterNo", request.MeterNo)
	params.Set("Amount", request.Amount)
	params.Set("PhoneNo", request.Phone)
	params.Set("RequestID", request.RequestID)

	return p.order("APIElectricityV1.asp", params)
}

func (p *ClubKonnectProvider) BuyRechargeCardPins(request RechargeCardRequest) (*ClubKonnectResponse, error) {
	code, err := NetworkCode(request.Network)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("MobileNetwork", code)
	params.Set("Value", request.Value)
	params.Set("Quantity", request.Quantity)
	params.Set("RequestID", request.RequestID)

	return p.order("APIRechargeCardV1.asp", params)
}

func (p *ClubKonnectProvider) BuyExamPins(request ExamPinRequest) (*ClubKonnectResponse, error) {
	params := url.Values{}
	params.Set("ExamType", request.ExamType)
	params.Set("PhoneNo", request.Phone)
	params.Set("RequestID", request.RequestID)

	return p.order("APIWAECV1.asp", params)
}

// QueryTransaction fetches the provider's view of an order. Operators use
// this to reconcile refunds against orders the provider may have silently
// completed.
func (p *ClubKonnectProvider) QueryTransaction(orderID string) (*ClubKonnectResponse, error) {
	params := url.Values{}
	params.Set("OrderID", orderID)

	bodyBytes, err := p.callEndpoint("APIQueryV1.asp", params)
	if err != nil {
		return nil, err
	}

	var model ClubKonnectResponse
	if err := json.Unmarshal(bodyBytes, &model); err != nil {
		return nil, fmt.Errorf("%w: error decoding response body: %v", ErrProviderUnreachable, err)
	}
	model.Raw = bodyBytes

	return &model, nil
}

// GetWalletBalance reports the float we hold with the provider.
func (p *ClubKonnectProvider) GetWalletBalance() (*WalletBalanceResponse, error) {
	bodyBytes, err := p.callEndpoint("APIWalletBalanceV1.asp", nil)
	if err != nil {
		return nil, err
	}

	var model WalletBalanceResponse
	if err := json.Unmarshal(bodyBytes, &model); err != nil {
		return nil, fmt.Errorf("%w: error decoding response body: %v", ErrProviderUnreachable, err)
	}

	return &model, nil
}

// GetDataPlans pulls the provider's live data bundle catalog. The response
// shape has been observed to drift, so the raw document is handed to the
// catalog sync which parses it tolerantly.
func (p *ClubKonnectProvider) GetDataPlans() (json.RawMessage, error) {
	return p.callEndpoint("APIDatabundlePlansV1.asp", nil)
}
