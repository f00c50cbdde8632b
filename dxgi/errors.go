// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxgi

import "github.com/gogpu/ggoverlay/com"

// DXGI result codes.
const (
	StatusOccluded com.HRESULT = 0x087A0001

	ErrInvalidCall             com.HRESULT = 0x887A0001
	ErrNotFound                com.HRESULT = 0x887A0002
	ErrMoreData                com.HRESULT = 0x887A0003
	ErrUnsupported             com.HRESULT = 0x887A0004
	ErrDeviceRemoved           com.HRESULT = 0x887A0005
	ErrDeviceHung              com.HRESULT = 0x887A0006
	ErrDeviceReset             com.HRESULT = 0x887A0007
	ErrWasStillDrawing         com.HRESULT = 0x887A000A
	ErrFrameStatisticsDisjoint com.HRESULT = 0x887A000B
	ErrNotCurrentlyAvailable   com.HRESULT = 0x887A0022
	ErrSDKComponentMissing     com.HRESULT = 0x887A002D
)

func init() {
	for hr, name := range map[com.HRESULT]string{
		StatusOccluded:             "DXGI_STATUS_OCCLUDED",
		ErrInvalidCall:             "DXGI_ERROR_INVALID_CALL",
		ErrNotFound:                "DXGI_ERROR_NOT_FOUND",
		ErrMoreData:                "DXGI_ERROR_MORE_DATA",
		ErrUnsupported:             "DXGI_ERROR_UNSUPPORTED",
		ErrDeviceRemoved:           "DXGI_ERROR_DEVICE_REMOVED",
		ErrDeviceHung:              "DXGI_ERROR_DEVICE_HUNG",
		ErrDeviceReset:             "DXGI_ERROR_DEVICE_RESET",
		ErrWasStillDrawing:         "DXGI_ERROR_WAS_STILL_DRAWING",
		ErrFrameStatisticsDisjoint: "DXGI_ERROR_FRAME_STATISTICS_DISJOINT",
		ErrNotCurrentlyAvailable:   "DXGI_ERROR_NOT_CURRENTLY_AVAILABLE",
		ErrSDKComponentMissing:     "DXGI_ERROR_SDK_COMPONENT_MISSING",
	} {
		com.RegisterName(hr, name)
	}
}
