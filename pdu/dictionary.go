package pdu

// ParameterCode is a three-digit CIMD2 parameter identifier.
type ParameterCode int

// Principal parameter codes, per the CIMD2 dictionary.
const (
	ParamUserID              ParameterCode = 10
	ParamPassword            ParameterCode = 11
	ParamSubAddr             ParameterCode = 12
	ParamWindowSize          ParameterCode = 19
	ParamDestAddr            ParameterCode = 21
	ParamOrigAddr            ParameterCode = 23
	ParamOrigIMSI            ParameterCode = 26
	ParamAlphaOrigAddr       ParameterCode = 27
	ParamOrigVMSCAddr        ParameterCode = 28
	ParamDataCodingScheme    ParameterCode = 30
	ParamUserDataHeader      ParameterCode = 32
	ParamUserData            ParameterCode = 33
	ParamUserDataBinary      ParameterCode = 34
	ParamMoreMsgs            ParameterCode = 44
	ParamValidityPeriodRel   ParameterCode = 50
	ParamValidityPeriodAbs   ParameterCode = 51
	ParamProtocolID          ParameterCode = 52
	ParamFirstDeliTimeRel    ParameterCode = 53
	ParamFirstDeliTimeAbs    ParameterCode = 54
	ParamReplyPath           ParameterCode = 55
	ParamStatusReportReq     ParameterCode = 56
	ParamCancelEnabled       ParameterCode = 58
	ParamCancelMode          ParameterCode = 59
	ParamServCentreTimestamp ParameterCode = 60
	ParamStatusCode          ParameterCode = 61
	ParamStatusErrorCode     ParameterCode = 62
	ParamDischargeTime       ParameterCode = 63
	ParamTariffClass         ParameterCode = 64
	ParamServiceDescr        ParameterCode = 65
	ParamMsgCount            ParameterCode = 66
	ParamPriority            ParameterCode = 67
	ParamDeliReqMode         ParameterCode = 68
	ParamServCenterAddr      ParameterCode = 69
	ParamGetParam            ParameterCode = 500
	ParamMCTime              ParameterCode = 501
	ParamErrorCode           ParameterCode = 900
	ParamErrorText           ParameterCode = 901
)

// paramNames is used only for diagnostics (log fields, error messages);
// the wire format carries the numeric code, never the symbolic name.
var paramNames = map[ParameterCode]string{
	ParamUserID:              "user_id",
	ParamPassword:            "password",
	ParamSubAddr:             "sub_addr",
	ParamWindowSize:          "window_size",
	ParamDestAddr:            "dest_addr",
	ParamOrigAddr:            "orig_addr",
	ParamOrigIMSI:            "orig_imsi",
	ParamAlphaOrigAddr:       "alpha_orig_addr",
	ParamOrigVMSCAddr:        "orig_vmsc_addr",
	ParamDataCodingScheme:    "data_coding_scheme",
	ParamUserDataHeader:      "user_data_header",
	ParamUserData:            "user_data",
	ParamUserDataBinary:      "user_data_binary",
	ParamMoreMsgs:            "more_msgs",
	ParamValidityPeriodRel:   "validity_period_rel",
	ParamValidityPeriodAbs:   "validity_period_abs",
	ParamProtocolID:          "protocol_id",
	ParamFirstDeliTimeRel:    "first_deli_time_rel",
	ParamFirstDeliTimeAbs:    "first_deli_time_abs",
	ParamReplyPath:           "reply_path",
	ParamStatusReportReq:     "status_report_req",
	ParamCancelEnabled:       "cancel_enabled",
	ParamCancelMode:          "cancel_mode",
	ParamServCentreTimestamp: "serv_centre_timestamp",
	ParamStatusCode:          "status_code",
	ParamStatusErrorCode:     "status_error_code",
	ParamDischargeTime:       "discharge_time",
	ParamTariffClass:         "tariff_class",
	ParamServiceDescr:        "service_descr",
	ParamMsgCount:            "msg_count",
	ParamPriority:            "priority",
	ParamDeliReqMode:         "deli_req_mode",
	ParamServCenterAddr:      "serv_center_addr",
	ParamGetParam:            "get_param",
	ParamMCTime:              "mc_time",
	ParamErrorCode:           "error_code",
	ParamErrorText:           "error_text",
}

// String renders the symbolic name for diagnostics, falling back to the
// numeric code when the parameter isn't in the principal catalog.
func (c ParameterCode) String() string {
	if name, ok := paramNames[c]; ok {
		return name
	}
	return itoa3(int(c))
}

// OpCode is the two-digit CIMD2 operation code.
type OpCode int

const (
	OpLogin                 OpCode = 1
	OpLogout                OpCode = 2
	OpSubmitMessage         OpCode = 3
	OpEnquireMessageStatus  OpCode = 4
	OpDeliveryRequest       OpCode = 5
	OpCancelMessage         OpCode = 6
	OpSetParam              OpCode = 8
	OpGetParam              OpCode = 9
	OpDeliverMessage        OpCode = 20
	OpDeliverStatusReport   OpCode = 23
	OpAlive                 OpCode = 40

	OpGeneralErrorResponse OpCode = 98
	OpNack                 OpCode = 99
)

// opNames is used only for diagnostics.
var opNames = map[OpCode]string{
	OpLogin:                "login",
	OpLogout:               "logout",
	OpSubmitMessage:        "submit_message",
	OpEnquireMessageStatus: "enquire_message_status",
	OpDeliveryRequest:      "delivery_request",
	OpCancelMessage:        "cancel_message",
	OpSetParam:             "set_param",
	OpGetParam:             "get_param",
	OpDeliverMessage:       "deliver_message",
	OpDeliverStatusReport:  "deliver_status_report",
	OpAlive:                "alive",
	OpGeneralErrorResponse: "general_error_response",
	OpNack:                 "nack",
}

func (o OpCode) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return itoa2(int(o))
}

// ResponseOf returns the response opcode for a request opcode (request + 50).
func ResponseOf(req OpCode) OpCode { return req + 50 }

// IsResponse reports whether op is a +50 response to one of the request
// opcodes this dictionary knows about.
func IsResponse(op OpCode) bool {
	if op == OpGeneralErrorResponse || op == OpNack {
		return true
	}
	_, known := opNames[op-50]
	return known && op >= 51
}

// commError maps CIMD2 communication-error codes (carried in parameter
// 900, error_code, on a general-error-response / nack) to human text, across
// every operation's documented range: general (0-10), login (100-108),
// submit (300-324), enquire (400-401), delivery request (500-502),
// cancel (600-603), deliver (700-730), set (800-801), get (900).
var commError = map[int]string{
	// General.
	0:  "No error",
	1:  "Unexpected operation",
	2:  "Syntax error",
	3:  "Unsupported parameter",
	4:  "Connection to MC lost",
	5:  "No response from MC",
	6:  "General system error",
	7:  "Cannot find information",
	8:  "Parameter formatting error",
	9:  "Requested operation failed",
	10: "Temporary congestion error",
	// Login.
	100: "Invalid login",
	101: "Incorrect access type",
	102: "Too many users with this login ID",
	103: "Login refused by SMSC",
	104: "Invalid window size",
	105: "Windowing disabled",
	106: "Virtual SMS Center-based barring",
	107: "Invalid subaddr",
	108: "Alias account, login refused",
	// Submit message.
	300: "Incorrect destination address",
	301: "Incorrect number of destination addresses",
	302: "Syntax error in user data parameter",
	303: "Incorrect bin/head/normal user data parameter combination",
	304: "Incorrect dcs parameter usage",
	305: "Incorrect validity period parameters usage",
	306: "Incorrect originator address usage",
	307: "Incorrect PID parameter usage",
	308: "Incorrect first delivery parameter usage",
	309: "Incorrect reply path usage",
	310: "Incorrect status report request parameter usage",
	311: "Incorrect cancel enabled parameter usage",
	312: "Incorrect priority parameter usage",
	313: "Incorrect tariff class parameter usage",
	314: "Incorrect service description parameter usage",
	315: "Incorrect transport type parameter usage",
	316: "Incorrect message type parameter usage",
	318: "Incorrect MMs parameter usage",
	319: "Incorrect operation timer parameter usage",
	320: "Incorrect dialogue ID parameter usage",
	321: "Incorrect alpha originator address usage",
	322: "Invalid data for alphanumeric originator",
	323: "Online closed user group rejection",
	324: "Licence expired",
	// Enquire message status.
	400: "Incorrect address parameter usage",
	401: "Incorrect scts parameter usage",
	// Delivery request.
	500: "Incorrect scts parameter usage",
	501: "Incorrect mode parameter usage",
	502: "Incorrect parameter combination",
	// Cancel message.
	600: "Incorrect scts parameter usage",
	601: "Incorrect address parameter usage",
	602: "Incorrect mode parameter usage",
	603: "Incorrect parameter combination",
	// Deliver message.
	700: "Delivery OK / waiting for delivery",
	710: "Generic failure",
	711: "Unsupported DCS",
	712: "Unsupported UDH",
	730: "Unknown subscriber",
	// Set param.
	800: "Changing password failed",
	801: "Changing password not allowed",
	// Get param.
	900: "Unsupported item requested",
}

// CommError looks up a communication-error code's text, reporting
// whether the code is known.
func CommError(code int) (string, bool) {
	text, ok := commError[code]
	return text, ok
}

// statusError maps CIMD2 status-error codes (parameter 062 on a
// deliver-status-report) to human text: SMSC delivery failure reasons,
// plus the USSD center connection release codes in the 750-768 range.
var statusError = map[int]string{
	0:   "No error",
	1:   "Unknown subscriber",
	9:   "Illegal subscriber",
	11:  "Teleservice not provisioned",
	13:  "Call barred",
	15:  "OCUG reject",
	19:  "No SMS support in MS",
	20:  "Error in MS",
	21:  "Facility not supported",
	22:  "Memory capacity exceeded",
	29:  "Absent subscriber",
	30:  "MS busy for MT-SMS",
	36:  "Network/Protocol failure",
	44:  "Illegal equipment",
	60:  "No paging response",
	61:  "GMSC congestion",
	63:  "HLR timeout",
	64:  "MSC/SGSN_timeout",
	70:  "SMRSE/TCP error",
	72:  "MT congestion",
	75:  "GPRS suspended",
	80:  "No paging response via MSC",
	81:  "IMSI detached",
	82:  "Roaming restriction",
	83:  "Deregistered in HLR for GSM",
	84:  "Purged for GSM",
	85:  "No paging response via SGSN",
	86:  "GPRS detached",
	87:  "Deregistered in HLR for GPRS",
	88:  "The MS purged for GPRS",
	89:  "Unidentified subscriber via MSC",
	90:  "Inidentified subscriber via SGSN",
	112: "Originator missing credit on prepaid account",
	113: "Destination missing credit on prepaid account",
	114: "Error in prepaid system",
	750: "Release, call barred",
	751: "Release, system failure",
	752: "Release, data missing",
	753: "Release, unexpected data value",
	754: "Release, absent subscriber",
	755: "Release, illegal subscriber",
	756: "Release, illegal equipment",
	757: "Release, unknown alphabet",
	758: "Release, USSD busy",
	759: "Relase, operation timer expired",
	760: "Release, unexpected primitive",
	761: "Release, wait timer expired",
	762: "Release, data error",
	763: "Release, too long USSD data",
	764: "Release, unknown MS address",
	765: "Release, network congestion",
	766: "Release, internal congestion",
	767: "Release, no network connection",
	768: "Release, USSD not supported",
}

// StatusError looks up a status-error code's text, reporting whether
// the code is known.
func StatusError(code int) (string, bool) {
	text, ok := statusError[code]
	return text, ok
}
