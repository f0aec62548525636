package compressor

import (
	"errors"
	"fmt"
)

// Kind classifies why a compression request produced no image.
type Kind string

const (
	KindUnsupportedInput Kind = "unsupported_input"
	KindPolicyRejected   Kind = "policy_rejected"
	KindNoOutputProduced Kind = "no_output_produced"
	KindTransportError   Kind = "transport_error"
)

// Sentinels matched by errors.Is against any *Failure of the same kind.
var (
	ErrUnsupportedInput = &Failure{Kind: KindUnsupportedInput}
	ErrPolicyRejected   = &Failure{Kind: KindPolicyRejected}
	ErrNoOutputProduced = &Failure{Kind: KindNoOutputProduced}
	ErrTransportError   = &Failure{Kind: KindTransportError}
)

// Failure is the terminal error of a compression request.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	msg := f.Message
	if msg == "" {
		msg = string(f.Kind)
	}
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", msg, f.Err)
	}
	return msg
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Is matches failures by kind.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok {
		return false
	}
	return t.Kind == f.Kind
}

// UserMessage is the text shown next to the compress button.
func (f *Failure) UserMessage() string {
	switch f.Kind {
	case KindUnsupportedInput:
		return "The AI service could not process this image. Please try a different file."
	case KindPolicyRejected:
		return "The AI service declined to process this image due to its content policy."
	case KindNoOutputProduced:
		return "The AI service did not return an image. Please try again."
	default:
		return "Failed to process image with the AI service."
	}
}

func newFailure(kind Kind, msg string, err error) *Failure {
	return &Failure{Kind: kind, Message: msg, Err: err}
}

// AsFailure extracts the *Failure from err. Errors that are not failures are
// reported as transport errors.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return newFailure(KindTransportError, "compression request failed", err)
}
