package codec

const (
	// StereoChannels is the only channel layout produced by decoders.
	StereoChannels = 2

	monoChannels = 1

	// sniffLen is the number of leading bytes handed to Format.Sniff.
	sniffLen = 12

	// mp3FrameSamples is the number of samples per channel in an MPEG-1 Layer III frame.
	mp3FrameSamples = 1152

	// mp3BytesPerFrame is the size of one decoded stereo int16 sample pair.
	mp3BytesPerFrame = 4

	// wavFormatPCM is the WAVE format tag of integer PCM.
	wavFormatPCM = 1

	// wavPacketFrames is the number of samples per channel read per WAV packet.
	wavPacketFrames = 4096

	bitsPerSample8  = 8
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// unsigned8BitOffset re-centers unsigned 8-bit PCM around zero.
	unsigned8BitOffset = 128
)
