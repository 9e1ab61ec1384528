package client

import "github.com/moneyport/acquiring-go/internal/domain/acquiring"

// BaseResponse is the envelope every acquiring API response carries.
type BaseResponse struct {
	Success   bool   `json:"Success"`
	ErrorCode string `json:"ErrorCode"`
	Message   string `json:"Message,omitempty"`
	Details   string `json:"Details,omitempty"`
}

func (r *BaseResponse) base() *BaseResponse { return r }

type responseEnvelope interface {
	base() *BaseResponse
}

type InitRequest struct {
	TerminalKey string             `json:"TerminalKey"`
	Amount      int64              `json:"Amount"`
	OrderID     string             `json:"OrderId"`
	CustomerKey string             `json:"CustomerKey,omitempty"`
	Description string             `json:"Description,omitempty"`
	Recurrent   string             `json:"Recurrent,omitempty"` // "Y" to register a rebill consent
	PayType     string             `json:"PayType,omitempty"`
	SuccessURL  string             `json:"SuccessURL,omitempty"`
	FailURL     string             `json:"FailURL,omitempty"`
	Receipt     *acquiring.Receipt `json:"Receipt,omitempty"`
	Data        map[string]string  `json:"DATA,omitempty"`
}

type InitResponse struct {
	BaseResponse
	TerminalKey string           `json:"TerminalKey"`
	Status      acquiring.Status `json:"Status"`
	PaymentID   int64            `json:"PaymentId"`
	OrderID     string           `json:"OrderId"`
	Amount      int64            `json:"Amount"`
	PaymentURL  string           `json:"PaymentURL,omitempty"`
}

type Check3DSVersionRequest struct {
	TerminalKey string `json:"TerminalKey"`
	PaymentID   int64  `json:"PaymentId"`
	CardData    string `json:"CardData"`
}

type Check3DSVersionResponse struct {
	BaseResponse
	Version          string `json:"Version"`
	TdsServerTransID string `json:"TdsServerTransID,omitempty"`
	ThreeDSMethodURL string `json:"ThreeDsMethodUrl,omitempty"`
	PaymentSystem    string `json:"PaymentSystem,omitempty"`
}

type FinishAuthorizeRequest struct {
	TerminalKey string            `json:"TerminalKey"`
	PaymentID   int64             `json:"PaymentId"`
	CardData    string            `json:"CardData,omitempty"`
	Amount      int64             `json:"Amount,omitempty"`
	SendEmail   bool              `json:"SendEmail,omitempty"`
	InfoEmail   string            `json:"InfoEmail,omitempty"`
	Data        map[string]string `json:"DATA,omitempty"`
}

type FinishAuthorizeResponse struct {
	BaseResponse
	Status    acquiring.Status `json:"Status"`
	PaymentID int64            `json:"PaymentId"`
	OrderID   string           `json:"OrderId"`
	Amount    int64            `json:"Amount"`
	CardID    string           `json:"CardId,omitempty"`
	RebillID  string           `json:"RebillId,omitempty"`

	// 3-D Secure challenge parameters, set when Status is 3DS_CHECKING.
	AcsURL           string `json:"ACSUrl,omitempty"`
	MD               string `json:"MD,omitempty"`
	PaReq            string `json:"PaReq,omitempty"`
	TdsServerTransID string `json:"TdsServerTransId,omitempty"`
	AcsTransID       string `json:"AcsTransId,omitempty"`
}

type ChargeRequest struct {
	TerminalKey string `json:"TerminalKey"`
	PaymentID   int64  `json:"PaymentId"`
	RebillID    string `json:"RebillId"`
	SendEmail   bool   `json:"SendEmail,omitempty"`
	InfoEmail   string `json:"InfoEmail,omitempty"`
}

type ChargeResponse struct {
	BaseResponse
	Status    acquiring.Status `json:"Status"`
	PaymentID int64            `json:"PaymentId"`
	OrderID   string           `json:"OrderId"`
	Amount    int64            `json:"Amount"`
	CardID    string           `json:"CardId,omitempty"`
	RebillID  string           `json:"RebillId,omitempty"`
}

// ConfirmRequest confirms a recurring charge that was declined pending CVC
// verification (bank error code 104).
type ConfirmRequest struct {
	TerminalKey string `json:"TerminalKey"`
	PaymentID   int64  `json:"PaymentId"`
	RebillID    string `json:"RebillId"`
	CardData    string `json:"CardData"`
}

type ConfirmResponse struct {
	BaseResponse
	Status    acquiring.Status `json:"Status"`
	PaymentID int64            `json:"PaymentId"`
	OrderID   string           `json:"OrderId"`
	RebillID  string           `json:"RebillId,omitempty"`
	CardID    string           `json:"CardId,omitempty"`
}

type GetStateRequest struct {
	TerminalKey string `json:"TerminalKey"`
	PaymentID   int64  `json:"PaymentId"`
}

type GetStateResponse struct {
	BaseResponse
	Status    acquiring.Status `json:"Status"`
	PaymentID int64            `json:"PaymentId"`
	OrderID   string           `json:"OrderId"`
	Amount    int64            `json:"Amount"`
}

type GetQrRequest struct {
	TerminalKey string `json:"TerminalKey"`
	PaymentID   int64  `json:"PaymentId"`
	DataType    string `json:"DataType,omitempty"` // PAYLOAD (deeplink) or IMAGE
}

type GetQrResponse struct {
	BaseResponse
	Data      string `json:"Data"`
	PaymentID int64  `json:"PaymentId"`
}

type GetStaticQrRequest struct {
	TerminalKey string `json:"TerminalKey"`
	DataType    string `json:"DataType,omitempty"`
}

type GetStaticQrResponse struct {
	BaseResponse
	Data string `json:"Data"`
}

// AppLinkRequest fetches the redirect deeplink for an installed-app payment
// method (bank app or Mir Pay).
type AppLinkRequest struct {
	TerminalKey string `json:"TerminalKey"`
	PaymentID   int64  `json:"PaymentId"`
	Version     string `json:"Version,omitempty"`
}

type AppLinkResponse struct {
	BaseResponse
	Params AppLinkParams `json:"Params"`
}

type AppLinkParams struct {
	RedirectURL string `json:"RedirectUrl"`
}

type Submit3DSAuthorizationRequest struct {
	TerminalKey string `json:"TerminalKey"`
	PaymentID   int64  `json:"PaymentId"`
	MD          string `json:"MD"`
	PaRes       string `json:"PaRes"`
}

type Submit3DSAuthorizationV2Request struct {
	TerminalKey string `json:"TerminalKey"`
	PaymentID   int64  `json:"PaymentId"`
	CRes        string `json:"cres"`
}

type Submit3DSAuthorizationResponse struct {
	BaseResponse
	Status    acquiring.Status `json:"Status"`
	PaymentID int64            `json:"PaymentId"`
	OrderID   string           `json:"OrderId"`
}

type GetCardListRequest struct {
	TerminalKey string `json:"TerminalKey"`
	CustomerKey string `json:"CustomerKey"`
}

// Card is one saved card of a customer.
type Card struct {
	CardID   string `json:"CardId"`
	Pan      string `json:"Pan"`
	Status   string `json:"Status"` // A active, I inactive, D deleted
	RebillID string `json:"RebillId,omitempty"`
	CardType int    `json:"CardType"`
	ExpDate  string `json:"ExpDate,omitempty"`
}

// IsActive reports whether the card can be charged.
func (c Card) IsActive() bool {
	return c.Status == "A"
}

type AddCardRequest struct {
	TerminalKey string              `json:"TerminalKey"`
	CustomerKey string              `json:"CustomerKey"`
	CheckType   acquiring.CheckType `json:"CheckType,omitempty"`
}

type AddCardResponse struct {
	BaseResponse
	RequestKey string `json:"RequestKey"`
	PaymentURL string `json:"PaymentURL,omitempty"`
}

type AttachCardRequest struct {
	TerminalKey string            `json:"TerminalKey"`
	RequestKey  string            `json:"RequestKey"`
	CardData    string            `json:"CardData"`
	Data        map[string]string `json:"DATA,omitempty"`
}

type AttachCardResponse struct {
	BaseResponse
	Status     acquiring.Status `json:"Status"`
	RequestKey string           `json:"RequestKey"`
	CardID     string           `json:"CardId,omitempty"`
	RebillID   string           `json:"RebillId,omitempty"`

	AcsURL string `json:"ACSUrl,omitempty"`
	MD     string `json:"MD,omitempty"`
	PaReq  string `json:"PaReq,omitempty"`
}

type GetAddCardStateRequest struct {
	TerminalKey string `json:"TerminalKey"`
	RequestKey  string `json:"RequestKey"`
}

type GetAddCardStateResponse struct {
	BaseResponse
	Status     acquiring.Status `json:"Status"`
	RequestKey string           `json:"RequestKey"`
	CardID     string           `json:"CardId,omitempty"`
	RebillID   string           `json:"RebillId,omitempty"`
}

type RemoveCardRequest struct {
	TerminalKey string `json:"TerminalKey"`
	CustomerKey string `json:"CustomerKey"`
	CardID      string `json:"CardId"`
}

type RemoveCardResponse struct {
	BaseResponse
	CardID string `json:"CardId"`
	Status string `json:"Status"`
}

type SubmitRandomAmountRequest struct {
	TerminalKey string `json:"TerminalKey"`
	RequestKey  string `json:"RequestKey"`
	Amount      int64  `json:"Amount"`
}

type SubmitRandomAmountResponse struct {
	BaseResponse
	Status     acquiring.Status `json:"Status"`
	RequestKey string           `json:"RequestKey"`
	CardID     string           `json:"CardId,omitempty"`
	RebillID   string           `json:"RebillId,omitempty"`
}

type GetTerminalPayMethodsRequest struct {
	TerminalKey string `json:"TerminalKey"`
	PaySource   string `json:"Paysource,omitempty"`
}

type GetTerminalPayMethodsResponse struct {
	BaseResponse
	TerminalInfo TerminalInfo `json:"TerminalInfo"`
}

type TerminalInfo struct {
	PayMethods        []PayMethod `json:"Paymethods"`
	AddCardScheme     bool        `json:"AddCardScheme"`
	TokenRequired     bool        `json:"TokenRequired"`
	InitTokenRequired bool        `json:"InitTokenRequired"`
}

type PayMethod struct {
	Name   string            `json:"PayMethod"`
	Params map[string]string `json:"Params,omitempty"`
}
