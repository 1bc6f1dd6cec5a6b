package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mediafeed/mediafeed/internal/api/models"
	"github.com/mediafeed/mediafeed/internal/supervisor"
)

// stopTimeout bounds graceful teardown triggered over the API.
const stopTimeout = 15 * time.Second

// channelByName resolves a path parameter to a controller.
func (s *Server) channelByName(name string) (Channel, error) {
	switch name {
	case "audio":
		return s.options.Audio, nil
	case "video":
		return s.options.Video, nil
	default:
		return nil, huma.Error404NotFound("unknown channel: " + name)
	}
}

// infoToAPIChannel converts a supervisor snapshot to the API shape.
func infoToAPIChannel(info supervisor.Info) models.ChannelData {
	data := models.ChannelData{
		Channel: info.Channel,
		State:   string(info.State),
		PID:     info.PID,
	}
	if !info.StartedAt.IsZero() {
		data.StartedAt = info.StartedAt.Format(time.RFC3339)
	}
	if info.LastError != nil {
		data.LastError = info.LastError.Error()
	}
	return data
}

// registerChannelRoutes registers channel status and playback endpoints.
func (s *Server) registerChannelRoutes() {
	// List channels
	huma.Register(s.api, huma.Operation{
		OperationID: "list-channels",
		Method:      http.MethodGet,
		Path:        "/api/channels",
		Summary:     "List Channels",
		Description: "Get the process state of both media channels",
		Tags:        []string{"channels"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.ChannelListResponse, error) {
		chs := []models.ChannelData{
			infoToAPIChannel(s.options.Audio.Info()),
			infoToAPIChannel(s.options.Video.Info()),
		}
		return &models.ChannelListResponse{
			Body: models.ChannelListData{
				Channels: chs,
				Count:    len(chs),
			},
		}, nil
	})

	// Get single channel
	huma.Register(s.api, huma.Operation{
		OperationID: "get-channel",
		Method:      http.MethodGet,
		Path:        "/api/channels/{channel}",
		Summary:     "Get Channel",
		Description: "Get the process state of one channel",
		Tags:        []string{"channels"},
		Errors:      []int{401, 404},
		Security:    withAuth(),
	}, func(_ context.Context, input *models.StopRequest) (*models.ChannelResponse, error) {
		ch, err := s.channelByName(input.Channel)
		if err != nil {
			return nil, err
		}
		return &models.ChannelResponse{Body: infoToAPIChannel(ch.Info())}, nil
	})

	// Start playback
	huma.Register(s.api, huma.Operation{
		OperationID: "play-channel",
		Method:      http.MethodPost,
		Path:        "/api/channels/{channel}/play",
		Summary:     "Play",
		Description: "Start playback of a media file into the channel's virtual device",
		Tags:        []string{"channels"},
		Errors:      []int{400, 401, 404, 409, 500},
		Security:    withAuth(),
	}, func(_ context.Context, input *models.PlayRequest) (*models.ChannelResponse, error) {
		ch, err := s.channelByName(input.Channel)
		if err != nil {
			return nil, err
		}
		if input.Body.Path == "" {
			return nil, huma.Error400BadRequest("path is required")
		}

		if err := ch.Play(input.Body.Path, input.Body.Loop); err != nil {
			if errors.Is(err, supervisor.ErrBusy) {
				return nil, huma.Error409Conflict("channel is busy", err)
			}
			return nil, huma.Error500InternalServerError("failed to start playback", err)
		}

		return &models.ChannelResponse{Body: infoToAPIChannel(ch.Info())}, nil
	})

	// Stop playback
	huma.Register(s.api, huma.Operation{
		OperationID: "stop-channel",
		Method:      http.MethodPost,
		Path:        "/api/channels/{channel}/stop",
		Summary:     "Stop",
		Description: "Stop the channel's current playback, if any",
		Tags:        []string{"channels"},
		Errors:      []int{401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.StopRequest) (*models.ChannelResponse, error) {
		ch, err := s.channelByName(input.Channel)
		if err != nil {
			return nil, err
		}

		stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
		defer cancel()
		if err := ch.Stop(stopCtx); err != nil {
			return nil, huma.Error500InternalServerError("failed to stop playback", err)
		}

		return &models.ChannelResponse{Body: infoToAPIChannel(ch.Info())}, nil
	})
}
