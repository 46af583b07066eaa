package common

// Validation errors. They are detected before any state mutation.
const (
	ErrInvalidSymbol      = "invalid symbol"
	ErrPrecisionMismatch  = "symbol precision mismatch"
	ErrCodeMismatch       = "symbol code mismatch"
	ErrNonPositiveAmount  = "amount must be positive"
	ErrUnknownPool        = "unknown pool"
	ErrUnknownReserve     = "unknown reserve"
	ErrUnknownToken       = "unknown token"
	ErrSameSymbol         = "cannot convert to the same symbol"
	ErrInvalidRatio       = "invalid reserve ratio"
	ErrInvalidMemo        = "invalid memo"
	ErrMalformedPath      = "malformed conversion path"
	ErrUnknownConverter   = "unknown converter"
	ErrInvalidDestination = "invalid destination"
	ErrInvalidAccount     = "invalid account"
)

// Economic constraint errors. They are detected after the would-be result
// is computed but before it is committed.
const (
	ErrBelowMinReturn            = "below min return"
	ErrZeroReturn                = "conversion return is zero"
	ErrFeeOverMax                = "fee over max"
	ErrInvalidRatioSum           = "invalid ratio sum"
	ErrInsufficientBalance       = "insufficient balance"
	ErrNoPendingDeposit          = "no pending deposit"
	ErrInappropriateAffiliateFee = "inappropriate affiliate fee"
	ErrAffiliateNotAnAccount     = "affiliate is not an account"
	ErrEmptyReserve              = "reserve balance is zero"
)

// State errors.
const (
	ErrSettingsExist      = "settings already exist"
	ErrReserveExists      = "reserve already exists"
	ErrNonEmptyReserve    = "non-empty reserve"
	ErrPendingDeposits    = "pending deposits exist"
	ErrPoolHasReserves    = "pool has reserves"
	ErrConverterDisabled  = "converter is disabled"
	ErrConverterEnabled   = "converter is enabled"
	ErrPoolDisabled       = "pool token conversions are disabled"
	ErrSaleDisabled       = "sale is disabled for the reserve"
	ErrNotIssuer          = "converter is not the pool token issuer"
	ErrUnauthorizedToken  = "unauthorized token"
	ErrRoutingInProgress  = "routing is in progress"
	ErrUnknownAmount      = "unknown pending amount"
	ErrAmountAlreadyExist = "pending amount already exists"
)
