package xr

import "fmt"

// Result is an XrResult code. Failed results satisfy the error interface.
type Result int32

// Result codes returned by the runtime
const (
	Success                              Result = 0
	TimeoutExpired                       Result = 1
	SessionLossPending                   Result = 3
	EventUnavailable                     Result = 4
	SpaceBoundsUnavailable               Result = 7
	SessionNotFocused                    Result = 8
	FrameDiscarded                       Result = 9
	ErrorValidationFailure               Result = -1
	ErrorRuntimeFailure                  Result = -2
	ErrorOutOfMemory                     Result = -3
	ErrorAPIVersionUnsupported           Result = -4
	ErrorInitializationFailed            Result = -6
	ErrorFunctionUnsupported             Result = -7
	ErrorFeatureUnsupported              Result = -8
	ErrorExtensionNotPresent             Result = -9
	ErrorLimitReached                    Result = -10
	ErrorSizeInsufficient                Result = -11
	ErrorHandleInvalid                   Result = -12
	ErrorInstanceLost                    Result = -13
	ErrorSessionRunning                  Result = -14
	ErrorSessionNotRunning               Result = -16
	ErrorSessionLost                     Result = -17
	ErrorSystemInvalid                   Result = -18
	ErrorPathInvalid                     Result = -19
	ErrorFileAccessError                 Result = -32
	ErrorFileContentsInvalid             Result = -33
	ErrorFormFactorUnsupported           Result = -34
	ErrorFormFactorUnavailable           Result = -35
	ErrorAPILayerNotPresent              Result = -36
	ErrorCallOrderInvalid                Result = -37
	ErrorGraphicsDeviceInvalid           Result = -38
	ErrorNameInvalid                     Result = -45
	ErrorGraphicsRequirementsCallMissing Result = -50
	ErrorRuntimeUnavailable              Result = -51
	ErrorAndroidThreadSettingsIDInvalid  Result = -1000003000
)

var resultNames = map[Result]string{
	Success:                              "XR_SUCCESS",
	TimeoutExpired:                       "XR_TIMEOUT_EXPIRED",
	SessionLossPending:                   "XR_SESSION_LOSS_PENDING",
	EventUnavailable:                     "XR_EVENT_UNAVAILABLE",
	SpaceBoundsUnavailable:               "XR_SPACE_BOUNDS_UNAVAILABLE",
	SessionNotFocused:                    "XR_SESSION_NOT_FOCUSED",
	FrameDiscarded:                       "XR_FRAME_DISCARDED",
	ErrorValidationFailure:               "XR_ERROR_VALIDATION_FAILURE",
	ErrorRuntimeFailure:                  "XR_ERROR_RUNTIME_FAILURE",
	ErrorOutOfMemory:                     "XR_ERROR_OUT_OF_MEMORY",
	ErrorAPIVersionUnsupported:           "XR_ERROR_API_VERSION_UNSUPPORTED",
	ErrorInitializationFailed:            "XR_ERROR_INITIALIZATION_FAILED",
	ErrorFunctionUnsupported:             "XR_ERROR_FUNCTION_UNSUPPORTED",
	ErrorFeatureUnsupported:              "XR_ERROR_FEATURE_UNSUPPORTED",
	ErrorExtensionNotPresent:             "XR_ERROR_EXTENSION_NOT_PRESENT",
	ErrorLimitReached:                    "XR_ERROR_LIMIT_REACHED",
	ErrorSizeInsufficient:                "XR_ERROR_SIZE_INSUFFICIENT",
	ErrorHandleInvalid:                   "XR_ERROR_HANDLE_INVALID",
	ErrorInstanceLost:                    "XR_ERROR_INSTANCE_LOST",
	ErrorSessionRunning:                  "XR_ERROR_SESSION_RUNNING",
	ErrorSessionNotRunning:               "XR_ERROR_SESSION_NOT_RUNNING",
	ErrorSessionLost:                     "XR_ERROR_SESSION_LOST",
	ErrorSystemInvalid:                   "XR_ERROR_SYSTEM_INVALID",
	ErrorPathInvalid:                     "XR_ERROR_PATH_INVALID",
	ErrorFileAccessError:                 "XR_ERROR_FILE_ACCESS_ERROR",
	ErrorFileContentsInvalid:             "XR_ERROR_FILE_CONTENTS_INVALID",
	ErrorFormFactorUnsupported:           "XR_ERROR_FORM_FACTOR_UNSUPPORTED",
	ErrorFormFactorUnavailable:           "XR_ERROR_FORM_FACTOR_UNAVAILABLE",
	ErrorAPILayerNotPresent:              "XR_ERROR_API_LAYER_NOT_PRESENT",
	ErrorCallOrderInvalid:                "XR_ERROR_CALL_ORDER_INVALID",
	ErrorGraphicsDeviceInvalid:           "XR_ERROR_GRAPHICS_DEVICE_INVALID",
	ErrorNameInvalid:                     "XR_ERROR_NAME_INVALID",
	ErrorRuntimeUnavailable:              "XR_ERROR_RUNTIME_UNAVAILABLE",
	ErrorGraphicsRequirementsCallMissing: "XR_ERROR_GRAPHICS_REQUIREMENTS_CALL_MISSING",
	ErrorAndroidThreadSettingsIDInvalid:  "XR_ERROR_ANDROID_THREAD_SETTINGS_ID_INVALID_KHR",
}

// Succeeded reports whether r is a success code. Positive codes are
// qualified successes.
func (r Result) Succeeded() bool { return r >= 0 }

// Failed reports whether r is an error code.
func (r Result) Failed() bool { return r < 0 }

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("XrResult(%d)", int32(r))
}

func (r Result) Error() string {
	return r.String()
}

// Err returns nil for Success and r for every other code, qualified
// successes included.
func (r Result) Err() error {
	if r == Success {
		return nil
	}
	return r
}
