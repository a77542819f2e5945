package publishers

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Supported publisher types.
const (
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"
	TypeHTTP   = "http"
)

const (
	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// PublisherConfig is one sink entry of the publishers file. Exactly the
// section matching Type is used.
type PublisherConfig struct {
	ID      string                 `json:"id" yaml:"id"`
	Type    string                 `json:"type" yaml:"type"`
	Enabled *bool                  `json:"enabled,omitempty" yaml:"enabled"`
	SQS     *SQSPublisherConfig    `json:"sqs,omitempty" yaml:"sqs"`
	SNS     *SNSPublisherConfig    `json:"sns,omitempty" yaml:"sns"`
	PubSub  *PubSubPublisherConfig `json:"pubsub,omitempty" yaml:"pubsub"`
	HTTP    *HTTPPublisherConfig   `json:"http,omitempty" yaml:"http"`
}

// AWSCredentials pins static credentials instead of the default chain.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token,omitempty" yaml:"session_token"`
}

// SQSPublisherConfig targets an SQS queue.
type SQSPublisherConfig struct {
	QueueURL    string          `json:"uri" yaml:"uri"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials,omitempty" yaml:"credentials"`
}

// SNSPublisherConfig targets an SNS topic.
type SNSPublisherConfig struct {
	TopicARN    string          `json:"topic_arn" yaml:"topic_arn"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials,omitempty" yaml:"credentials"`
}

// PubSubPublisherConfig targets a Google Cloud Pub/Sub topic. Endpoint is
// meant for emulators.
type PubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file"`
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint"`
}

// HTTPPublisherConfig targets a webhook.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers,omitempty" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// EnabledValue returns the enabled flag, defaulting to true.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// normalized returns a trimmed copy with defaults applied. Sections are
// copied so the caller's config is never shared.
func (cfg PublisherConfig) normalized() PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		on := true
		cfg.Enabled = &on
	}

	if cfg.SQS != nil {
		c := *cfg.SQS
		c.QueueURL, c.Region = strings.TrimSpace(c.QueueURL), strings.TrimSpace(c.Region)
		c.Credentials = c.Credentials.normalized()
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		c.TopicARN, c.Region = strings.TrimSpace(c.TopicARN), strings.TrimSpace(c.Region)
		c.Credentials = c.Credentials.normalized()
		cfg.SNS = &c
	}
	if cfg.PubSub != nil {
		c := *cfg.PubSub
		c.ProjectID = strings.TrimSpace(c.ProjectID)
		c.Topic = strings.TrimSpace(c.Topic)
		c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
		c.Endpoint = strings.TrimSpace(c.Endpoint)
		cfg.PubSub = &c
	}
	if cfg.HTTP != nil {
		c := *cfg.HTTP
		c.URL = strings.TrimSpace(c.URL)
		if c.Method = strings.ToUpper(strings.TrimSpace(c.Method)); c.Method == "" {
			c.Method = httpDefaultMethod
		}
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		c.Headers = trimHeaders(c.Headers)
		cfg.HTTP = &c
	}
	return cfg
}

// normalized drops credentials that carry no key pair.
func (c *AWSCredentials) normalized() *AWSCredentials {
	if c == nil {
		return nil
	}
	out := AWSCredentials{
		AccessKeyID:     strings.TrimSpace(c.AccessKeyID),
		SecretAccessKey: strings.TrimSpace(c.SecretAccessKey),
		SessionToken:    strings.TrimSpace(c.SessionToken),
	}
	if out.AccessKeyID == "" && out.SecretAccessKey == "" {
		return nil
	}
	return &out
}

func trimHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// validate reports missing settings for the configured type.
func (cfg PublisherConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}

	var err error
	switch cfg.Type {
	case "":
		err = errors.New("type is required")
	case TypeSQS:
		var c SQSPublisherConfig
		if cfg.SQS != nil {
			c = *cfg.SQS
		}
		err = requireFields(cfg.SQS != nil, "sqs", map[string]string{"uri": c.QueueURL, "region": c.Region})
		if err == nil {
			err = c.Credentials.validate()
		}
	case TypeSNS:
		var c SNSPublisherConfig
		if cfg.SNS != nil {
			c = *cfg.SNS
		}
		err = requireFields(cfg.SNS != nil, "sns", map[string]string{"topic_arn": c.TopicARN, "region": c.Region})
		if err == nil {
			err = c.Credentials.validate()
		}
	case TypePubSub:
		var c PubSubPublisherConfig
		if cfg.PubSub != nil {
			c = *cfg.PubSub
		}
		err = requireFields(cfg.PubSub != nil, "pubsub", map[string]string{"project_id": c.ProjectID, "topic": c.Topic})
	case TypeHTTP:
		var c HTTPPublisherConfig
		if cfg.HTTP != nil {
			c = *cfg.HTTP
		}
		err = requireFields(cfg.HTTP != nil, "http", map[string]string{"url": c.URL})
	}
	if err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return nil
}

func (c *AWSCredentials) validate() error {
	if c == nil {
		return nil
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return errors.New("credentials need both access_key_id and secret_access_key")
	}
	return nil
}

// requireFields checks that a section exists and none of its fields is empty.
func requireFields(present bool, section string, fields map[string]string) error {
	if !present {
		return fmt.Errorf("%s section is required", section)
	}
	var missing []string
	for name, value := range fields {
		if value == "" {
			missing = append(missing, section+"."+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("missing %s", strings.Join(missing, ", "))
}
