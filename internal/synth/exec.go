package synth

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"sync"

	"github.com/mattn/go-shellwords"
)

type execSynth struct {
	cmd []string
	mu  sync.Mutex
}

type execRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type execResponse struct {
	SamplesBase64 string `json:"samples_base64"`
	SampleRate    int    `json:"sample_rate"`
}

// NewExecSynth wraps an external engine process. Each call writes one JSON
// request to the child's stdin and reads one JSON response line carrying
// base64 little-endian float32 samples and the rate used to produce them.
func NewExecSynth(command string) (Synthesizer, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse synth command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("synth command empty")
	}
	return &execSynth{cmd: args}, nil
}

func (e *execSynth) Synthesize(ctx context.Context, text, voice string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := json.Marshal(execRequest{Text: text, Voice: voice})
	if err != nil {
		return Result{}, err
	}

	base := e.cmd[0]
	args := append([]string{}, e.cmd[1:]...)
	cmd := exec.CommandContext(ctx, base, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return Result{}, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, err
	}
	if err := cmd.Start(); err != nil {
		return Result{}, err
	}

	if _, err := stdin.Write(append(data, '\n')); err != nil {
		cmd.Wait()
		return Result{}, err
	}
	stdin.Close()

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	var resp execResponse
	found := false
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := json.Unmarshal(line, &resp); err != nil {
			cmd.Wait()
			return Result{}, fmt.Errorf("decode synth response: %w", err)
		}
		found = true
		break
	}
	if err := cmd.Wait(); err != nil {
		return Result{}, fmt.Errorf("synth process: %w", err)
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return Result{}, scanErr
	}
	if !found {
		return Result{}, fmt.Errorf("synth process produced no response")
	}
	return decodeResult(resp)
}

// decodeResult validates the engine's untyped response at the boundary.
func decodeResult(resp execResponse) (Result, error) {
	if resp.SampleRate <= 0 {
		return Result{}, fmt.Errorf("synth response missing sample rate")
	}
	raw, err := base64.StdEncoding.DecodeString(resp.SamplesBase64)
	if err != nil {
		return Result{}, fmt.Errorf("decode synth samples: %w", err)
	}
	if len(raw)%4 != 0 {
		return Result{}, fmt.Errorf("synth samples not float32-aligned: %d bytes", len(raw))
	}
	samples := make([]float32, len(raw)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return Result{Samples: samples, SampleRate: resp.SampleRate}, nil
}
