// Package api holds the HTTP transport models of the storefront API.
package api

// ErrorCode is a machine readable error class.
type ErrorCode string

// Error codes.
const (
	INVALIDARGUMENT ErrorCode = "INVALID_ARGUMENT"
	NOTFOUND        ErrorCode = "NOT_FOUND"
	INVALIDSTEP     ErrorCode = "INVALID_STEP"
	CHECKOUTFAILED  ErrorCode = "CHECKOUT_FAILED"
	UPSTREAM        ErrorCode = "UPSTREAM_ERROR"
	INTERNAL        ErrorCode = "INTERNAL"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes an error.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// MediaReport summarizes media prefetching.
type MediaReport struct {
	Total  int `json:"total"`
	Loaded int `json:"loaded"`
	Failed int `json:"failed"`
}

// Client is the storefront owner.
type Client struct {
	Id          int64   `json:"id"`
	Name        string  `json:"name"`
	FantasyName string  `json:"fantasyName"`
	LogoURL     *string `json:"logoURL,omitempty"`
	BannerURL   *string `json:"bannerURL,omitempty"`
	Banner2URL  *string `json:"banner2URL,omitempty"`
	VideoURL    *string `json:"videoURL,omitempty"`
	Whatsapp    string  `json:"whatsapp,omitempty"`
	Instagram   string  `json:"instagram,omitempty"`
}

// Prize is a parsed prize.
type Prize struct {
	Name     string  `json:"name"`
	ImageId  *string `json:"imageId,omitempty"`
	ImageURL *string `json:"imageURL,omitempty"`
}

// Raffle is a raffle summary.
type Raffle struct {
	Id              int64   `json:"id"`
	InnerCode       string  `json:"innerCode"`
	Name            string  `json:"name"`
	Extra           string  `json:"extra,omitempty"`
	TicketPrice     string  `json:"ticketPrice"`
	TicketCurrency  string  `json:"ticketCurrency"`
	FormattedPrice  string  `json:"formattedPrice"`
	Prizes          []Prize `json:"prizes"`
	SelectNumber    bool    `json:"selectNumber"`
	TicketLimit     int     `json:"ticketLimit"`
	MinTickets      int     `json:"minTickets"`
	MaxTickets      int     `json:"maxTickets"`
	TicketsCount    int     `json:"ticketsCount"`
	NumberOfWinners int     `json:"numberOfWinners"`
	Date            string  `json:"date,omitempty"`
	Client          *Client `json:"client,omitempty"`
}

// Storefront is the landing page.
type Storefront struct {
	Domain  string      `json:"domain"`
	Client  Client      `json:"client"`
	Raffles []Raffle    `json:"raffles"`
	Media   MediaReport `json:"media"`
}

// Bank is an account of a payment method.
type Bank struct {
	Id            int64  `json:"id"`
	Name          string `json:"name"`
	LogoURL       string `json:"logoURL,omitempty"`
	Rif           string `json:"rif,omitempty"`
	Phone         string `json:"phone,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	AccountType   string `json:"accountType,omitempty"`
}

// PaymentMethod groups banks of one method.
type PaymentMethod struct {
	Id         int    `json:"id"`
	Method     string `json:"method"`
	Name       string `json:"name"`
	LogoURL    string `json:"logoURL,omitempty"`
	MinTickets int    `json:"minTickets"`
	Banks      []Bank `json:"banks"`
}

// RaffleDetail is the raffle page.
type RaffleDetail struct {
	Raffle           Raffle          `json:"raffle"`
	PaymentMethods   []PaymentMethod `json:"paymentMethods"`
	PurchasedNumbers []string        `json:"purchasedNumbers"`
	AvailableNumbers []string        `json:"availableNumbers,omitempty"`
	Upcoming         bool            `json:"upcoming"`
	Media            MediaReport     `json:"media"`
	RefreshedAt      string          `json:"refreshedAt"`
}

// Purchase is a verified purchase.
type Purchase struct {
	TicketId     int64  `json:"ticketId"`
	TicketNumber string `json:"ticketNumber"`
	PaymentId    int64  `json:"paymentId"`
	Method       string `json:"method"`
	Status       string `json:"status"`
	StatusLabel  string `json:"statusLabel"`
	BuyerName    string `json:"buyerName"`
	CreatedAt    string `json:"createdAt"`
}

// Country is a dial-code selector entry.
type Country struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	DialCode string `json:"dialCode"`
	Flag     string `json:"flag"`
}

// Buyer is the captured contact data.
type Buyer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Instructions tell the buyer where to pay.
type Instructions struct {
	Method        string `json:"method"`
	Bank          string `json:"bank"`
	Rif           string `json:"rif"`
	Phone         string `json:"phone"`
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType,omitempty"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

// CheckoutSession is the state of a purchase wizard.
type CheckoutSession struct {
	Id              string          `json:"id"`
	RaffleId        int64           `json:"raffleId"`
	RaffleCode      string          `json:"raffleCode"`
	Step            string          `json:"step"`
	SelectNumber    bool            `json:"selectNumber"`
	SelectedTickets []string        `json:"selectedTickets"`
	Quantity        int             `json:"quantity"`
	TicketCount     int             `json:"ticketCount"`
	Total           string          `json:"total"`
	PaymentMethods  []PaymentMethod `json:"paymentMethods"`
	Method          string          `json:"method,omitempty"`
	Bank            *Bank           `json:"bank,omitempty"`
	Buyer           *Buyer          `json:"buyer,omitempty"`
	Instructions    *Instructions   `json:"instructions,omitempty"`
	UserId          int64           `json:"userId,omitempty"`
	PaymentId       int64           `json:"paymentId,omitempty"`
	LastError       string          `json:"lastError,omitempty"`
	UpdatedAt       string          `json:"updatedAt"`
}

// StartCheckoutJSONRequestBody opens a session.
type StartCheckoutJSONRequestBody struct {
	RaffleCode string `json:"raffleCode"`
}

// PutTicketsJSONRequestBody picks ticket numbers.
type PutTicketsJSONRequestBody struct {
	Numbers []int `json:"numbers"`
}

// PutQuantityJSONRequestBody sets the random ticket count.
type PutQuantityJSONRequestBody struct {
	Quantity int `json:"quantity"`
}

// PaymentMethodJSONRequestBody selects how to pay.
type PaymentMethodJSONRequestBody struct {
	Method string `json:"method"`
	BankId int64  `json:"bankId"`
}

// UserDataJSONRequestBody is the buyer form.
type UserDataJSONRequestBody struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CountryCode string `json:"countryCode"`
	Phone       string `json:"phone"`
}

// VoucherJSONRequestBody carries the payment receipt as a data URL.
type VoucherJSONRequestBody struct {
	Voucher string `json:"voucher"`
}

// GetStorefrontParams are query parameters of GET /api/storefront.
type GetStorefrontParams struct {
	Domain string `query:"domain"`
}

// VerifyPurchasesParams are query parameters of the verification lookup.
type VerifyPurchasesParams struct {
	Email   string `query:"email"`
	Phone   string `query:"phone"`
	Country string `query:"country"`
}
