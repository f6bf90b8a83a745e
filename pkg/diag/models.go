package diag

// Response models for the Edge Diagnostics API. Field names mirror the
// API's camelCase wire format.

// EdgeIPLocation describes the location of an edge IP.
type EdgeIPLocation struct {
	ASNumber    int    `json:"asNumber,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	RegionCode  string `json:"regionCode,omitempty"`
}

// IPInfo is an IP address with its location.
type IPInfo struct {
	IP       string         `json:"ip,omitempty"`
	Location EdgeIPLocation `json:"ipLocation,omitempty"`
}

// BaseResponse contains the fields present in every API response.
type BaseResponse struct {
	CompletedTime   string         `json:"completedTime,omitempty"`
	CreatedBy       string         `json:"createdBy,omitempty"`
	CreatedTime     string         `json:"createdTime,omitempty"`
	EdgeIPLocation  EdgeIPLocation `json:"edgeIpLocation,omitempty"`
	ExecutionStatus string         `json:"executionStatus,omitempty"`
}

// DNSRecord is one record of a dig answer or authority section.
type DNSRecord struct {
	Hostname        string `json:"hostname,omitempty"`
	Domain          string `json:"domain,omitempty"`
	PreferenceValue string `json:"preferenceValue,omitempty"`
	RecordClass     string `json:"recordClass,omitempty"`
	RecordType      string `json:"recordType,omitempty"`
	TTL             int    `json:"ttl,omitempty"`
	Value           string `json:"value,omitempty"`
}

// DigResult is the payload of a dig response.
type DigResult struct {
	AnswerSection    []DNSRecord `json:"answerSection,omitempty"`
	AuthoritySection []DNSRecord `json:"authoritySection,omitempty"`

	// RawDig is the raw dig command output.
	RawDig string `json:"result,omitempty"`
}

// DigResponse is the response of the dig operation.
type DigResponse struct {
	BaseResponse
	InternalIP string    `json:"internalIp,omitempty"`
	Result     DigResult `json:"result"`
}

// HasAnswers reports whether the answer section contains any records.
func (r *DigResult) HasAnswers() bool {
	return len(r.AnswerSection) > 0
}

// TranslateRequestEcho is the request echoed back in a translate response.
type TranslateRequestEcho struct {
	ErrorCode        string `json:"errorCode,omitempty"`
	TraceForwardLogs bool   `json:"traceForwardLogs,omitempty"`
}

// LogLine is one edge server log line of a translated error.
type LogLine struct {
	ARL                string `json:"arl,omitempty"`
	BytesReceived      string `json:"bytesReceived,omitempty"`
	BytesServed        string `json:"bytesServed,omitempty"`
	ClientIP           string `json:"clientIp,omitempty"`
	ContentBytesServed string `json:"contentBytesServed,omitempty"`
	ContentType        string `json:"contentType,omitempty"`
	Cookie             string `json:"cookie,omitempty"`
	CPCode             string `json:"cpCode,omitempty"`
	DateTime           string `json:"dateTime,omitempty"`
	EdgeIP             string `json:"edgeIp,omitempty"`
	Error              string `json:"error,omitempty"`
	ForwardIP          string `json:"forwardIp,omitempty"`
	HostHeader         string `json:"hostHeader,omitempty"`
	HTTPMethod         string `json:"httpMethod,omitempty"`
	HTTPStatus         string `json:"httpStatus,omitempty"`
	LogType            string `json:"logType,omitempty"`
	ObjectSize         string `json:"objectSize,omitempty"`
	ObjectStatus       string `json:"objectStatus,omitempty"`
	ObjectStatus2      string `json:"objectStatus2,omitempty"`
	ObjectStatus3      string `json:"objectStatus3,omitempty"`
	Referer            string `json:"referer,omitempty"`
	SSLVersion         string `json:"sslVersion,omitempty"`
	TimeTaken          string `json:"timeTaken,omitempty"`
	TurnaroundTime     string `json:"turnaroundTime,omitempty"`
	UserAgent          string `json:"userAgent,omitempty"`
}

// LogLines groups the log lines of a translate result.
type LogLines struct {
	Logs []LogLine `json:"logs,omitempty"`
}

// TranslateResult is the payload of an error-translation response.
type TranslateResult struct {
	CacheKeyHostname    string   `json:"cacheKeyHostname,omitempty"`
	ClientIP            IPInfo   `json:"clientIp,omitempty"`
	ClientRequestMethod string   `json:"clientRequestMethod,omitempty"`
	ConnectingIP        IPInfo   `json:"connectingIp,omitempty"`
	CPCode              int      `json:"cpCode,omitempty"`
	Date                string   `json:"date,omitempty"`
	EdgeServerIP        IPInfo   `json:"edgeServerIp,omitempty"`
	EpochTime           int64    `json:"epochTime,omitempty"`
	GrepURL             string   `json:"grepUrl,omitempty"`
	HTTPResponseCode    int      `json:"httpResponseCode,omitempty"`
	LogLines            LogLines `json:"logLines,omitempty"`
	OriginIP            string   `json:"originIp,omitempty"`
	PropertyName        string   `json:"propertyName,omitempty"`
	PropertyURL         string   `json:"propertyUrl,omitempty"`
	ReasonForFailure    string   `json:"reasonForFailure,omitempty"`
	URL                 string   `json:"url,omitempty"`
	UserAgent           string   `json:"userAgent,omitempty"`
	WAFDetails          string   `json:"wafDetails,omitempty"`
	WAFDetailsURL       string   `json:"wafDetailsUrl,omitempty"`
	WSAURL              string   `json:"wsaUrl,omitempty"`

	// NoLogsErrorTitle is set when no logs matched the reference ID.
	NoLogsErrorTitle string `json:"noLogsErrorTitle,omitempty"`
}

// NoLogsFound reports whether the translation matched no edge logs.
func (r *TranslateResult) NoLogsFound() bool {
	return r.NoLogsErrorTitle != ""
}

// TranslateResponse is the response of the error-translation operation.
type TranslateResponse struct {
	BaseResponse
	Request   *TranslateRequestEcho `json:"request,omitempty"`
	RequestID int                   `json:"requestId,omitempty"`
	Result    TranslateResult       `json:"result"`

	// The wire field name carries the API's spelling.
	SuggestedActions []string `json:"sugestedActions,omitempty"`
}
