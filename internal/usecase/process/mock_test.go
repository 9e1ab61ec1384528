package process_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
)

// mockAPI implements process.AcquiringAPI for tests.
type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Init(ctx context.Context, req *client.InitRequest) (*client.InitResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*client.InitResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) Check3DSVersion(ctx context.Context, req *client.Check3DSVersionRequest) (*client.Check3DSVersionResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*client.Check3DSVersionResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) FinishAuthorize(ctx context.Context, req *client.FinishAuthorizeRequest) (*client.FinishAuthorizeResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*client.FinishAuthorizeResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) Charge(ctx context.Context, req *client.ChargeRequest) (*client.ChargeResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*client.ChargeResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) Confirm(ctx context.Context, req *client.ConfirmRequest) (*client.ConfirmResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*client.ConfirmResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) GetState(ctx context.Context, req *client.GetStateRequest) (*client.GetStateResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*client.GetStateResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) GetQr(ctx context.Context, req *client.GetQrRequest) (*client.GetQrResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*client.GetQrResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) GetBankAppLink(ctx context.Context, req *client.AppLinkRequest) (*client.AppLinkResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*client.AppLinkResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) GetMirPayLink(ctx context.Context, req *client.AppLinkRequest) (*client.AppLinkResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*client.AppLinkResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) Submit3DSAuthorization(ctx context.Context, req *client.Submit3DSAuthorizationRequest) (*client.Submit3DSAuthorizationResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*client.Submit3DSAuthorizationResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) Submit3DSAuthorizationV2(ctx context.Context, req *client.Submit3DSAuthorizationV2Request) (*client.Submit3DSAuthorizationResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*client.Submit3DSAuthorizationResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// mockEncryptor returns the plaintext wrapped in a marker instead of real RSA.
type mockEncryptor struct{}

func (mockEncryptor) Encrypt(plaintext string) (string, error) {
	return "enc(" + plaintext + ")", nil
}
