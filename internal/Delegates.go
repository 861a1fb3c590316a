package internal

// DelegateReadStreamInfo is a callback function type to report the number of bytes consumed per buffer fill
type DelegateReadStreamInfo func(readBytes int64)

// DelegateWriteStreamInfo is a callback function type to report the number of bytes written to the output
type DelegateWriteStreamInfo func(writeBytes int64)

func reportRead(delegate DelegateReadStreamInfo, n int) {
	if delegate != nil && n > 0 {
		delegate(int64(n))
	}
}

func reportWrite(delegate DelegateWriteStreamInfo, n int64) {
	if delegate != nil && n > 0 {
		delegate(n)
	}
}
