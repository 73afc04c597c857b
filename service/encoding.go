package service

import (
	"encoding/base64"
	"encoding/json"

	"github.com/redraft-ai/redraft/domain"
)

// EncodingErrorRule is the rule kind of the placeholder payload substituted
// when an issue cannot be encoded. The modal renders an explicit
// encoding-error state when it decodes this rule kind.
const EncodingErrorRule = "encoding_error"

// encodingErrorPlaceholder replaces payloads that fail to encode.
func encodingErrorPlaceholder() *domain.Issue {
	return &domain.Issue{
		RuleKind: EncodingErrorRule,
		Message:  "Issue data could not be encoded for display",
	}
}

// EncodeIssuePayload serializes an issue for transport inside a DOM
// attribute. JSON bytes are UTF-8, so standard base64 over them is
// Unicode-safe: smart quotes, dashes and emoji in issue text round-trip
// intact. On failure the placeholder payload is encoded instead, so the
// result is always usable.
func EncodeIssuePayload(issue *domain.Issue) string {
	if issue == nil {
		issue = encodingErrorPlaceholder()
	}
	data, err := json.Marshal(issue)
	if err != nil {
		data, _ = json.Marshal(encodingErrorPlaceholder())
	}
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeIssuePayload reverses EncodeIssuePayload. Malformed encodings
// decode to the placeholder payload together with an encoding error.
func DecodeIssuePayload(encoded string) (*domain.Issue, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return encodingErrorPlaceholder(), domain.NewEncodingError("invalid base64 payload", err)
	}
	var issue domain.Issue
	if err := json.Unmarshal(data, &issue); err != nil {
		return encodingErrorPlaceholder(), domain.NewEncodingError("invalid issue payload", err)
	}
	return &issue, nil
}
