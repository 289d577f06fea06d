// Package modelbus provides models for AMQP transfer objects.

package modelbus

type MsgVerify struct {
	JobID    string `json:"job_id" msgpack:"job_id"`
	FileName string `json:"file_name" msgpack:"file_name"`
	Deep     bool   `json:"deep" msgpack:"deep"`
}

type Rsp struct {
	JobID    string `json:"job_id" msgpack:"job_id"`
	FileName string `json:"file_name" msgpack:"file_name"`
	RspType  string `json:"rsp_type" msgpack:"rsp_type"`
	IsReady  bool   `json:"is_ready" msgpack:"is_ready"`
}
