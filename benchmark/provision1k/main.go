package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

var maxGreenhouses int = 1000
var httpHostPort string = "127.0.0.1:1080"
var brokerURL string = "tcp://127.0.0.1:1883"
var topicPrefix string = "greenhouse"

var plants = []string{"Tomato", "Basil", "Lettuce"}

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

var mqttClient mqtt.Client
var sequence atomic.Int64
var failures atomic.Int64

type greenhouse struct {
	id      string
	ownerID string
}

func main() {
	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	opts := mqtt.NewClientOptions().AddBroker(brokerURL).SetClientID("greenhouse-bench-" + uuid.NewString())
	mqttClient = mqtt.NewClient(opts)
	if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal("Failed to connect to MQTT broker:", token.Error())
	}
	defer mqttClient.Disconnect(250)

	fmt.Printf("mqtt broker verified and connected\n")

	var startTime time.Time
	var usedTime time.Duration

	greenhouses := make([]greenhouse, maxGreenhouses)
	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxGreenhouses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			greenhouses[i] = provision(i)
			fmt.Printf("\rprovisioned greenhouse %v", i)
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rprovisioned %v greenhouses: used time=%v seconds, throughput=%v action/second\n",
		maxGreenhouses, usedTime.Seconds(), float64(maxGreenhouses)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxGreenhouses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doAction(greenhouses[i])
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v greenhouses: used time=%v seconds, throughput=%v action/second, failures=%v\n",
		maxGreenhouses, usedTime.Seconds(), float64(maxGreenhouses*4)/usedTime.Seconds(), failures.Load(),
	)
}

func rndIntn(n int) int {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Intn(n)
}

func rndFloat64(min, max float64, decimal int) float64 {
	rndMu.Lock()
	val := min + rnd.Float64()*(max-min)
	rndMu.Unlock()
	multiplier := math.Pow10(decimal)
	return math.Round(val*multiplier) / multiplier
}

func call(method, ownerID, path string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		jsonData, _ := json.Marshal(body)
		reader = bytes.NewBuffer(jsonData)
	}
	req, err := http.NewRequest(method, fmt.Sprintf("http://%s%s", httpHostPort, path), reader)
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Owner-ID", ownerID)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		failures.Add(1)
		fmt.Printf("\nerror: %v\n", err)
		return 0, nil
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		failures.Add(1)
		fmt.Printf("\n%s %s: %v %s\n", method, path, resp.StatusCode, data)
	}
	return resp.StatusCode, data
}

func provision(i int) greenhouse {
	ownerID := uuid.NewString()
	code, data := call("POST", ownerID, "/greenhouses", map[string]string{
		"name":           fmt.Sprintf("bench-%d", i),
		"plant_template": plants[i%len(plants)],
	})
	if code != http.StatusCreated {
		panic(fmt.Sprintf("provision failed: %v %s", code, data))
	}

	var created struct {
		Greenhouse struct {
			ID string `json:"id"`
		} `json:"greenhouse"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		panic(err)
	}
	return greenhouse{id: created.Greenhouse.ID, ownerID: ownerID}
}

func doAction(gh greenhouse) {
	actions := []func(){
		genPublishTelemetryAction(gh),
		genUpdateSetpointAction(gh),
		genGetStatusAction(gh),
		genGetHistoryAction(gh),
	}
	actionNames := []string{
		"PublishTelemetry",
		"UpdateSetpoint",
		"GetStatus",
		"GetHistory",
	}
	rndMu.Lock()
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	rndMu.Unlock()
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for greenhouse %v", actionNames[index], gh.id)
		time.Sleep(time.Duration(100+rndIntn(1000)) * time.Millisecond)
	}
}

func genPublishTelemetryAction(gh greenhouse) func() {
	return func() {
		payload, _ := json.Marshal(map[string]any{
			"device_id":     gh.id,
			"timestamp":     time.Now().Unix(),
			"sequence":      sequence.Add(1),
			"temperature":   rndFloat64(10, 35, 1),
			"humidity":      rndFloat64(30, 95, 1),
			"light":         rndFloat64(0, 1200, 0),
			"tank_level":    rndIntn(2) == 0,
			"lights_are_on": rndIntn(2) == 0,
			"pump_on":       rndIntn(2) == 0,
		})
		token := mqttClient.Publish(fmt.Sprintf("%s/%s/telemetry", topicPrefix, gh.id), 1, false, payload)
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			failures.Add(1)
			fmt.Printf("\nerror: %v\n", token.Error())
		}
	}
}

func genUpdateSetpointAction(gh greenhouse) func() {
	return func() {
		tempMin := rndFloat64(10, 20, 1)
		call("PATCH", gh.ownerID, "/greenhouses/"+gh.id+"/setpoint", map[string]any{
			"target_temp_min": tempMin,
			"target_temp_max": tempMin + rndFloat64(4, 10, 1),
		})
	}
}

func genGetStatusAction(gh greenhouse) func() {
	return func() {
		call("GET", gh.ownerID, "/greenhouses/"+gh.id, nil)
	}
}

func genGetHistoryAction(gh greenhouse) func() {
	return func() {
		call("GET", gh.ownerID, "/greenhouses/"+gh.id+"/history?parameter=temperature&limit=30", nil)
	}
}
