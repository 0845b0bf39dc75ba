package bridge

// Commands understood by the bridge firmware. The transport forwards the
// byte unchanged; only this layer assigns meaning to it.
const (
	CmdInitSeq      byte = 0
	CmdSetReplyPort byte = 1
	CmdSetAddress   byte = 2
	CmdWriteReg     byte = 3
	CmdReadReg      byte = 4
	CmdFirmwareRev  byte = 5
	CmdRSSI         byte = 6
)
