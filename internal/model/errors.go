package model

import "errors"

// ErrorKind tells the three failure paths of a weather request apart.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindProvider
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindProvider:
		return "provider"
	case KindTransport:
		return "transport"
	}
	return "unknown"
}

const (
	MsgCityRequired   = "Please enter a city name."
	MsgCityNotFound   = "City not found"
	MsgGenericFailure = "Could not fetch weather data. Please check the city name and try again."
	MsgLoading        = "Loading weather data..."
)

// WeatherError carries a message that is safe to show to the user.
// Status is the provider's HTTP status for KindProvider, zero otherwise.
type WeatherError struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

func (e *WeatherError) Error() string {
	return e.Message
}

func (e *WeatherError) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) *WeatherError {
	return &WeatherError{Kind: KindValidation, Message: msg}
}

// NewProviderError falls back to MsgCityNotFound when the provider sent no message.
func NewProviderError(status int, msg string) *WeatherError {
	if msg == "" {
		msg = MsgCityNotFound
	}
	return &WeatherError{Kind: KindProvider, Message: msg, Status: status}
}

// NewTransportError keeps cause for errors.Is/As and uses it as the message when it has one.
func NewTransportError(cause error) *WeatherError {
	msg := MsgGenericFailure
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
	}
	return &WeatherError{Kind: KindTransport, Message: msg, Err: cause}
}

// KindOf returns the kind of a *WeatherError anywhere in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var we *WeatherError
	if errors.As(err, &we) {
		return we.Kind
	}
	return 0
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

func IsProvider(err error) bool {
	return KindOf(err) == KindProvider
}

func IsTransport(err error) bool {
	return KindOf(err) == KindTransport
}
