package cimd2

import (
	"strconv"

	"cimd2/pdu"
)

// Builder constructs CIMD2 request frames for a single session. It
// draws its packet number from Counter and stamps a checksum on every
// frame when UseChecksum is set — both mirror the owning Session's
// configuration, and Builder never mutates them on its own beyond
// advancing Counter.
type Builder struct {
	Codec       pdu.Codec
	Counter     *PacketCounter
	UseChecksum bool
}

// NewBuilder returns a Builder with its own fresh packet counter.
// Sessions that need to share a counter with other callers should set
// Counter directly instead.
func NewBuilder(useChecksum bool) *Builder {
	return &Builder{Counter: NewPacketCounter(), UseChecksum: useChecksum}
}

func (b *Builder) frame(opcode pdu.OpCode, params []pdu.ParameterPair) []byte {
	return b.Codec.CreateMessage(int(opcode), params, b.Counter.Next(), b.UseChecksum)
}

// TextMsgParams is the union of optional fields a submit/deliver
// message may carry. Fields left at their zero value are omitted from
// the frame. UserData and UserDataBinary are mutually exclusive, as
// are ValidityPeriodRel/Abs and FirstDeliTimeRel/Abs.
type TextMsgParams struct {
	DestAddr            string
	OrigAddr            string
	OrigIMSI            string
	AlphaOrigAddr       string
	OrigVMSCAddr        string
	DataCodingScheme    *int
	UserDataHeader      string
	UserData            string
	UserDataBinary      string
	MoreMessagesToSend  *bool
	ValidityPeriodRel   string
	ValidityPeriodAbs   string
	ProtocolID          string
	FirstDeliTimeRel    string
	FirstDeliTimeAbs    string
	ReplyPath           *bool
	StatusReportRequest string
	CancelEnabled       *bool
	CancelMode          *int
	ServCentreTimestamp string
	TariffClass         string
	ServiceDescription  string
	PriorityLevel       string
	DeliReqMode         *int
	ServCenterAddr      string
}

// EncodeTextMsgParams builds the ordered parameter list shared by
// submit, deliver, and deliver-status-report frames, enforcing the
// mutual exclusions and range/length rules CIMD2 places on these
// fields. It does not create a frame.
func (b *Builder) EncodeTextMsgParams(f TextMsgParams) ([]pdu.ParameterPair, error) {
	if f.UserData != "" && f.UserDataBinary != "" {
		return nil, &ConflictingParametersError{A: pdu.ParamUserData, B: pdu.ParamUserDataBinary}
	}
	if f.ValidityPeriodRel != "" && f.ValidityPeriodAbs != "" {
		return nil, &ConflictingParametersError{A: pdu.ParamValidityPeriodRel, B: pdu.ParamValidityPeriodAbs}
	}
	if f.FirstDeliTimeRel != "" && f.FirstDeliTimeAbs != "" {
		return nil, &ConflictingParametersError{A: pdu.ParamFirstDeliTimeRel, B: pdu.ParamFirstDeliTimeAbs}
	}
	if f.DataCodingScheme != nil && (*f.DataCodingScheme < 0 || *f.DataCodingScheme > 255) {
		return nil, ErrParameterOutOfRange
	}
	if len(f.AlphaOrigAddr) >= 12 {
		return nil, ErrParameterTooLong
	}

	var params []pdu.ParameterPair
	add := func(code pdu.ParameterCode, value string) {
		if value != "" {
			params = append(params, pdu.ParameterPair{Code: code, Value: value})
		}
	}

	add(pdu.ParamDestAddr, f.DestAddr)
	add(pdu.ParamOrigAddr, f.OrigAddr)
	add(pdu.ParamOrigIMSI, f.OrigIMSI)
	add(pdu.ParamAlphaOrigAddr, f.AlphaOrigAddr)
	add(pdu.ParamOrigVMSCAddr, f.OrigVMSCAddr)
	if f.DataCodingScheme != nil {
		add(pdu.ParamDataCodingScheme, strconv.Itoa(*f.DataCodingScheme))
	}
	add(pdu.ParamUserDataHeader, f.UserDataHeader)
	add(pdu.ParamUserData, f.UserData)
	add(pdu.ParamUserDataBinary, f.UserDataBinary)
	if f.MoreMessagesToSend != nil {
		add(pdu.ParamMoreMsgs, boolParam(*f.MoreMessagesToSend))
	}
	add(pdu.ParamValidityPeriodRel, f.ValidityPeriodRel)
	add(pdu.ParamValidityPeriodAbs, f.ValidityPeriodAbs)
	add(pdu.ParamProtocolID, f.ProtocolID)
	add(pdu.ParamFirstDeliTimeRel, f.FirstDeliTimeRel)
	add(pdu.ParamFirstDeliTimeAbs, f.FirstDeliTimeAbs)
	if f.ReplyPath != nil {
		add(pdu.ParamReplyPath, boolParam(*f.ReplyPath))
	}
	add(pdu.ParamStatusReportReq, f.StatusReportRequest)
	if f.CancelEnabled != nil {
		add(pdu.ParamCancelEnabled, boolParam(*f.CancelEnabled))
	}
	if f.CancelMode != nil {
		add(pdu.ParamCancelMode, strconv.Itoa(*f.CancelMode))
	}
	add(pdu.ParamServCentreTimestamp, f.ServCentreTimestamp)
	add(pdu.ParamTariffClass, f.TariffClass)
	add(pdu.ParamServiceDescr, f.ServiceDescription)
	add(pdu.ParamPriority, f.PriorityLevel)
	if f.DeliReqMode != nil {
		add(pdu.ParamDeliReqMode, strconv.Itoa(*f.DeliReqMode))
	}
	add(pdu.ParamServCenterAddr, f.ServCenterAddr)

	return params, nil
}

func boolParam(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func findParam(params []pdu.ParameterPair, code pdu.ParameterCode) (string, bool) {
	for _, p := range params {
		if p.Code == code {
			return p.Value, true
		}
	}
	return "", false
}

func requireParam(params []pdu.ParameterPair, code pdu.ParameterCode) (string, error) {
	v, ok := findParam(params, code)
	if !ok {
		return "", &MissingMandatoryParameterError{Code: code}
	}
	return v, nil
}
