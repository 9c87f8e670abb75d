package mediainfo

import "github.com/tidwall/gjson"

// doviSideDataType is the side-data tag ffprobe attaches when a stream
// carries a Dolby Vision configuration record.
const doviSideDataType = "DOVI configuration record"

// DetectDolbyVision reports whether any of the stream's side-data records is
// a Dolby Vision configuration record.
func DetectDolbyVision(stream gjson.Result) bool {
	for _, item := range stream.Get("side_data_list").Array() {
		if item.Get("side_data_type").String() == doviSideDataType {
			return true
		}
	}
	return false
}

// DetectHDR reports whether the stream's color metadata indicates HDR:
// bt2020 color primaries or bt2020nc color space.
func DetectHDR(stream gjson.Result) bool {
	return stream.Get("color_primaries").String() == "bt2020" ||
		stream.Get("color_space").String() == "bt2020nc"
}

// DecorateCodec augments a codec label with its dynamic-range class. Dolby
// Vision takes priority over plain HDR when both are detected.
func DecorateCodec(codec string, dovi, hdr bool) string {
	switch {
	case dovi:
		return codec + " + Dolby Vision"
	case hdr:
		return codec + " + HDR"
	}
	return codec
}
