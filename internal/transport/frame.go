package transport

import (
	"encoding/binary"
	"errors"
)

// Wire layout, big-endian throughout.
//
//	request: transaction_id:u32 | command:u8 | payload
//	reply:   transaction_id:u32 | command:u8 | error_code:u8 | payload
const (
	requestHeaderLen = 5
	replyHeaderLen   = 6
)

// A datagram larger than this cannot come from the bridge.
const maxDatagramLen = 2048

type Reply struct {
	TransactionID uint32
	Command       byte
	ErrorCode     byte
	Payload       []byte
}

func encodeRequest(id uint32, command byte, payload []byte) []byte {
	frame := make([]byte, requestHeaderLen+len(payload))
	binary.BigEndian.PutUint32(frame, id)
	frame[4] = command
	copy(frame[requestHeaderLen:], payload)
	return frame
}

var errShortReply = errors.New("reply shorter than the 6 byte header")

func parseReply(datagram []byte) (Reply, error) {
	if len(datagram) < replyHeaderLen {
		return Reply{}, errShortReply
	}

	r := Reply{
		TransactionID: binary.BigEndian.Uint32(datagram),
		Command:       datagram[4],
		ErrorCode:     datagram[5],
	}

	if len(datagram) > replyHeaderLen {
		r.Payload = append([]byte(nil), datagram[replyHeaderLen:]...)
	}

	return r, nil
}
