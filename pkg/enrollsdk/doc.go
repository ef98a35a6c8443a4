// Package enrollsdk is a typed Go client for the enroll service. It wraps
// the invitation lifecycle and onboarding routing endpoints so consuming
// services do not build requests by hand.
//
// Authenticated calls use a bearer token issued by the platform's auth
// service; the SDK never mints or refreshes tokens itself.
package enrollsdk
