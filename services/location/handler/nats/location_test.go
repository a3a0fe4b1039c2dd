package nats

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/piresc/kirimjek/services/location"
	"github.com/piresc/kirimjek/services/location/mocks"
	"github.com/stretchr/testify/assert"
)

func TestHandleLocationUpdate(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		mockSetup func(*mocks.MockLocationUC)
		wantErr   bool
	}{
		{
			name:    "Success",
			payload: `{"driver_id":"drv-1","location":{"latitude":-6.2,"longitude":106.8}}`,
			mockSetup: func(uc *mocks.MockLocationUC) {
				uc.EXPECT().UpsertPosition(gomock.Any(), "drv-1", -6.2, 106.8).Return(nil, nil)
			},
		},
		{
			name:    "Invalid coordinate is dropped",
			payload: `{"driver_id":"drv-1","location":{"latitude":120,"longitude":0}}`,
			mockSetup: func(uc *mocks.MockLocationUC) {
				uc.EXPECT().UpsertPosition(gomock.Any(), "drv-1", 120.0, 0.0).Return(nil, location.ErrInvalidCoordinate)
			},
		},
		{
			name:      "Malformed payload",
			payload:   `{not json`,
			mockSetup: func(uc *mocks.MockLocationUC) {},
			wantErr:   true,
		},
		{
			name:    "Store failure",
			payload: `{"driver_id":"drv-1","location":{"latitude":1,"longitude":1}}`,
			mockSetup: func(uc *mocks.MockLocationUC) {
				uc.EXPECT().UpsertPosition(gomock.Any(), "drv-1", 1.0, 1.0).Return(nil, errors.New("redis down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockUC := mocks.NewMockLocationUC(ctrl)
			tt.mockSetup(mockUC)
			h := NewLocationHandler(mockUC, nil, nil)

			err := h.handleLocationUpdate([]byte(tt.payload))

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHandleDriverOffline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUC := mocks.NewMockLocationUC(ctrl)
	mockUC.EXPECT().MarkOffline(gomock.Any(), "drv-1").Return(nil)
	h := NewLocationHandler(mockUC, nil, nil)

	assert.NoError(t, h.handleDriverOffline([]byte(`{"driver_id":"drv-1"}`)))
}
