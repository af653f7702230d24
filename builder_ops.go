package cimd2

import (
	"fmt"
	"strconv"

	"cimd2/pdu"
)

// Login builds opcode 01. userID and password must be at most 32
// characters (empty values are not rejected here); subAddr (optional, pass "" to omit) at most 3
// characters; windowSize (optional, pass 0 to omit) at most 128.
func (b *Builder) Login(userID, password, subAddr string, windowSize int) ([]byte, error) {
	if len(userID) > 32 || len(password) > 32 {
		return nil, ErrParameterTooLong
	}
	if len(subAddr) > 3 {
		return nil, ErrParameterTooLong
	}
	if windowSize > 128 {
		return nil, ErrParameterTooLong
	}

	params := []pdu.ParameterPair{
		{Code: pdu.ParamUserID, Value: userID},
		{Code: pdu.ParamPassword, Value: password},
	}
	if subAddr != "" {
		params = append(params, pdu.ParameterPair{Code: pdu.ParamSubAddr, Value: subAddr})
	}
	if windowSize > 0 {
		params = append(params, pdu.ParameterPair{Code: pdu.ParamWindowSize, Value: strconv.Itoa(windowSize)})
	}
	return b.frame(pdu.OpLogin, params), nil
}

// Logout builds opcode 02, which carries no parameters.
func (b *Builder) Logout() []byte {
	return b.frame(pdu.OpLogout, nil)
}

// SubmitMessage builds opcode 03. dest_addr is mandatory; params is
// typically the output of EncodeTextMsgParams.
func (b *Builder) SubmitMessage(params []pdu.ParameterPair) ([]byte, error) {
	if _, err := requireParam(params, pdu.ParamDestAddr); err != nil {
		return nil, err
	}
	return b.frame(pdu.OpSubmitMessage, params), nil
}

// EnquireMessageStatus builds opcode 04, which always carries both
// dest_addr and serv_centre_timestamp.
func (b *Builder) EnquireMessageStatus(destAddr, servCentreTimestamp string) []byte {
	return b.frame(pdu.OpEnquireMessageStatus, []pdu.ParameterPair{
		{Code: pdu.ParamDestAddr, Value: destAddr},
		{Code: pdu.ParamServCentreTimestamp, Value: servCentreTimestamp},
	})
}

// DeliveryRequest builds opcode 05. mode must be in 0..2.
func (b *Builder) DeliveryRequest(mode int) ([]byte, error) {
	if mode < 0 || mode > 2 {
		return nil, ErrParameterOutOfRange
	}
	return b.frame(pdu.OpDeliveryRequest, []pdu.ParameterPair{
		{Code: pdu.ParamDeliReqMode, Value: strconv.Itoa(mode)},
	}), nil
}

// CancelMessage builds opcode 06. mode must be in 0..2: mode 0
// requires destAddr; mode 2 requires both destAddr and
// servCentreTimestamp; mode 1 requires neither but accepts both.
func (b *Builder) CancelMessage(mode int, destAddr, servCentreTimestamp string) ([]byte, error) {
	if mode < 0 || mode > 2 {
		return nil, ErrParameterOutOfRange
	}
	if mode == 0 && destAddr == "" {
		return nil, &MissingMandatoryParameterError{Code: pdu.ParamDestAddr}
	}
	if mode == 2 {
		if destAddr == "" {
			return nil, &MissingMandatoryParameterError{Code: pdu.ParamDestAddr}
		}
		if servCentreTimestamp == "" {
			return nil, &MissingMandatoryParameterError{Code: pdu.ParamServCentreTimestamp}
		}
	}

	params := []pdu.ParameterPair{{Code: pdu.ParamCancelMode, Value: strconv.Itoa(mode)}}
	if destAddr != "" {
		params = append(params, pdu.ParameterPair{Code: pdu.ParamDestAddr, Value: destAddr})
	}
	if servCentreTimestamp != "" {
		params = append(params, pdu.ParameterPair{Code: pdu.ParamServCentreTimestamp, Value: servCentreTimestamp})
	}
	return b.frame(pdu.OpCancelMessage, params), nil
}

// DeliverMessage builds opcode 20: dest_addr, orig_addr, and
// serv_centre_timestamp are mandatory. This is produced by an SMSC,
// not used by an ESME client; the builder exists for symmetry and for
// fake-server test harnesses.
func (b *Builder) DeliverMessage(params []pdu.ParameterPair) ([]byte, error) {
	for _, code := range [...]pdu.ParameterCode{pdu.ParamDestAddr, pdu.ParamOrigAddr, pdu.ParamServCentreTimestamp} {
		if _, err := requireParam(params, code); err != nil {
			return nil, err
		}
	}
	return b.frame(pdu.OpDeliverMessage, params), nil
}

// DeliverStatusReport builds opcode 23: dest_addr,
// serv_centre_timestamp, status_code, and discharge_time are
// mandatory.
func (b *Builder) DeliverStatusReport(params []pdu.ParameterPair) ([]byte, error) {
	for _, code := range [...]pdu.ParameterCode{pdu.ParamDestAddr, pdu.ParamServCentreTimestamp, pdu.ParamStatusCode, pdu.ParamDischargeTime} {
		if _, err := requireParam(params, code); err != nil {
			return nil, err
		}
	}
	return b.frame(pdu.OpDeliverStatusReport, params), nil
}

// SetParam builds opcode 08: a single parameter block identifying the
// symbol to set and its new value.
func (b *Builder) SetParam(symbol pdu.ParameterCode, value string) ([]byte, error) {
	if value == "" {
		return nil, &MissingMandatoryParameterError{Code: symbol}
	}
	return b.frame(pdu.OpSetParam, []pdu.ParameterPair{{Code: symbol, Value: value}}), nil
}

// GetParam builds opcode 09: a single parameter block with code 500
// (get_param) whose value is the three-digit code of the symbol being
// queried.
func (b *Builder) GetParam(symbol pdu.ParameterCode) []byte {
	return b.frame(pdu.OpGetParam, []pdu.ParameterPair{
		{Code: pdu.ParamGetParam, Value: fmt.Sprintf("%03d", int(symbol))},
	})
}

// Alive builds opcode 40, which carries no parameters.
func (b *Builder) Alive() []byte {
	return b.frame(pdu.OpAlive, nil)
}
