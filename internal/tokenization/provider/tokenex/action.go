package tokenex

// Base URLs of the TokenEx API.
const (
	SandboxURL = "https://test-api.tokenex.com"
	LiveURL    = "https://api.tokenex.com"
)

// Request body keys. EncryptedData keeps the vendor's spelling.
const (
	ParamAPIKey        = "APIKey"
	ParamTokenExID     = "TokenExID"
	ParamData          = "Data"
	ParamEncryptedData = "EcryptedData"
	ParamToken         = "Token"
	ParamTokenScheme   = "TokenScheme"
)

// Response body keys shared by every action.
const (
	ResponseSuccess         = "Success"
	ResponseError           = "Error"
	ResponseReferenceNumber = "ReferenceNumber"
)

// Action is one TokenEx REST endpoint and the response key holding its answer.
type Action struct {
	Name string
	Path string
	Key  string
}

// Supported actions.
var (
	ActionTokenize = Action{
		Name: "Tokenize",
		Path: "TokenServices.svc/REST/Tokenize",
		Key:  "Token",
	}
	ActionTokenizeFromEncryptedValue = Action{
		Name: "TokenizeFromEncryptedValue",
		Path: "TokenServices.svc/REST/TokenizeFromEncryptedValue",
		Key:  "Token",
	}
	ActionValidateToken = Action{
		Name: "ValidateToken",
		Path: "TokenServices.svc/REST/ValidateToken",
		Key:  "Valid",
	}
	ActionDetokenize = Action{
		Name: "Detokenize",
		Path: "TokenServices.svc/REST/Detokenize",
		Key:  "Value",
	}
	ActionDeleteToken = Action{
		Name: "DeleteToken",
		Path: "TokenServices.svc/REST/DeleteToken",
		Key:  "Success",
	}
	ActionGetUsageStats = Action{
		Name: "GetUsageStats",
		Path: "ReportingServices.svc/REST/GetUsageStats",
		Key:  "UsageStats",
	}
	// GetTokenCount shares the usage stats endpoint and reads a different key.
	ActionGetTokenCount = Action{
		Name: "GetTokenCount",
		Path: "ReportingServices.svc/REST/GetUsageStats",
		Key:  "TokenCount",
	}
)
